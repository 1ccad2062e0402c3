package services

import (
	"fmt"
	"strings"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/learning/topic"
)

const exceptionDemoCode = `public class ExceptionDemo {
  public static void main(String[] args) {
    try {
      int[] values = {1, 2, 3};
      int result = values[4];
      System.out.println(result);
    } catch (ArrayIndexOutOfBoundsException e) {
      System.out.println("Handled: " + e.getMessage());
    } finally {
      System.out.println("Cleanup complete");
    }
  }
}`

var styleInstructions = map[style.Label]string{
	style.Visual:      "Create visually structured notes with clear headings, bullets, and a flow sequence.",
	style.Auditory:    "Create a spoken-style script with short sentences and natural narration pacing.",
	style.Kinesthetic: "Create an action-oriented task sheet with steps, checkpoints, and expected outcomes.",
}

func styleInstruction(l style.Label) string {
	if s, ok := styleInstructions[l]; ok {
		return s
	}
	return "Create clear learning content."
}

// adaptiveTemplate is the canned answer for a style. The model only
// replaces its text; assets always come from here.
func adaptiveTemplate(question string, l style.Label) types.ContentResponse {
	t := strings.TrimRight(strings.TrimSpace(question), "?")
	switch l {
	case style.Visual:
		return types.ContentResponse{
			ResponseType: string(style.Visual),
			Text: fmt.Sprintf("Visual Learning Plan for: %s\n\n"+
				"1. Big Picture\n- Start with a concept diagram and identify key entities.\n\n"+
				"2. Process Flow\n- Follow the sequence from input to output and mark error paths.\n\n"+
				"3. Worked Example\n- Read one solved example and trace each step visually.\n\n"+
				"4. Revision Snapshot\n- Use a one-page visual summary with keywords and arrows.", t),
			Assets: types.Assets{
				Diagram:            "Input -> Try Block -> Exception Raised? -> Catch -> Finally -> Continue",
				VideoURL:           "https://www.youtube.com/watch?v=1XAfapkBQjk",
				GIFURL:             "https://media.giphy.com/media/26ufdipQqU2lhNA4g/giphy.gif",
				SuggestedDownloads: []string{"pdf", "video"},
			},
		}
	case style.Auditory:
		return types.ContentResponse{
			ResponseType: string(style.Auditory),
			Text: fmt.Sprintf("Auditory Learning Script for: %s\n\n"+
				"- Listen to this in short chunks.\n"+
				"- Repeat each point out loud in your own words.\n"+
				"- Record a 30-second summary after each section.", t),
			Assets: types.Assets{
				AudioScript: fmt.Sprintf("Audio-style explanation for %s. "+
					"Think of exception handling as a safety system. "+
					"The try block runs risky code. If an issue occurs, catch handles it clearly. "+
					"Finally runs cleanup steps no matter what happens.", t),
				AudioURL:           "https://www2.cs.uic.edu/~i101/SoundFiles/BabyElephantWalk60.wav",
				SuggestedDownloads: []string{"audio"},
			},
		}
	default:
		return types.ContentResponse{
			ResponseType: string(style.Kinesthetic),
			Text: fmt.Sprintf("Kinesthetic Practice Path for: %s\n\n"+
				"Step 1: Create class and main method.\n"+
				"Step 2: Put risky operation inside try block.\n"+
				"Step 3: Add specific catch block and print readable message.\n"+
				"Step 4: Add finally block and run code.\n"+
				"Step 5: Modify input to trigger another exception and test again.", t),
			Assets: types.Assets{
				StarterCode:        exceptionDemoCode,
				TaskSheet:          "Implement try-catch-finally and test two failure cases.",
				SuggestedDownloads: []string{"task_sheet", "solution"},
			},
		}
	}
}

var quickPrompts = []string{
	"Explain Java basics for beginners",
	"How does try-catch-finally work?",
	"Give me one practical coding task",
	"What are common mistakes in Java?",
}

// suggestionsFor returns follow-up prompts for t, or the generic set when
// t carries no subject.
func suggestionsFor(t string) []string {
	t = strings.TrimRight(strings.TrimSpace(t), "?")
	if topic.IsLowSignal(t) {
		return append([]string(nil), quickPrompts...)
	}
	return []string{
		fmt.Sprintf("Explain %s step by step", t),
		fmt.Sprintf("Show a worked example of %s", t),
		fmt.Sprintf("Give me one practical coding task on %s", t),
		fmt.Sprintf("What are common mistakes with %s?", t),
	}
}
