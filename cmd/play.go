package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mikiheller/reading-comprehension/internal/assess"
	"github.com/mikiheller/reading-comprehension/internal/llm"
	"github.com/mikiheller/reading-comprehension/internal/session"
	"github.com/mikiheller/reading-comprehension/internal/speech"
	"github.com/mikiheller/reading-comprehension/internal/story"
	"github.com/mikiheller/reading-comprehension/internal/topics"
)

var playVoice bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice reading in the terminal",
	Long: `Run a full reading session in the terminal: pick a level, length, and
topic, read the story, and answer its two questions. Answers are typed by
default; with --voice each answer is a path to a recorded clip (webm) that
is transcribed before assessment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := godotenv.Load(); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded .env")
		}

		llmCfg := llm.ConfigFromEnv()
		if err := llmCfg.Validate(); err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		provider, err := llm.NewProvider(ctx, llmCfg, nil)
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		history, err := topics.NewSQLite(resolveDBPath(cmd), nil)
		if err != nil {
			return fmt.Errorf("open topic history: %w", err)
		}
		defer history.Close()

		var rec speech.Recognizer = speech.NewTypedRecognizer()
		if playVoice {
			rec = speech.NewOpenAIRecognizer(llmCfg.OpenAI.APIKey, llmCfg.OpenAI.BaseURL)
		}

		manager, err := session.NewManager(
			story.New(provider, story.DefaultGenConfig()),
			assess.New(provider, assess.DefaultConfig()),
			history, rec, nil,
		)
		if err != nil {
			if errors.Is(err, speech.ErrUnsupported) {
				return fmt.Errorf("voice answers need OPENAI_API_KEY: %w", err)
			}
			return err
		}

		game := &playSession{
			manager: manager,
			in:      bufio.NewScanner(os.Stdin),
			out:     cmd.OutOrStdout(),
			voice:   playVoice,
		}
		return game.run(ctx)
	},
}

func init() {
	playCmd.Flags().BoolVar(&playVoice, "voice", false, "answer with recorded audio clips (paths to webm files)")
}

// playSession adapts the session manager to a line-oriented terminal: it
// reads configuration and answers from stdin and renders state snapshots
// as plain text.
type playSession struct {
	manager *session.Manager
	in      *bufio.Scanner
	out     io.Writer
	voice   bool
}

func (p *playSession) run(ctx context.Context) error {
	for {
		if err := p.playStory(ctx); err != nil {
			return err
		}
		if !p.askYesNo("Another story? (y/n) ") {
			return nil
		}
		p.manager.Reconfigure()
	}
}

// playStory runs one full session: configure, generate, answer both
// questions, celebrate.
func (p *playSession) playStory(ctx context.Context) error {
	cfg := story.Config{
		GradeLevel: p.ask("Reading level", "2nd grade"),
		Length:     story.Length(p.ask("Story length (short/medium/long)", string(story.LengthShort))),
		TopicArea:  p.ask("Topic", "ocean animals"),
	}

	fmt.Fprintln(p.out, "\nWriting your story...")
	if err := p.manager.StartNewSession(ctx, cfg); err != nil {
		if snap := p.manager.Snapshot(); snap.Phase == session.PhaseError {
			fmt.Fprintln(p.out, snap.ErrorMessage)
			return nil
		}
		return err
	}

	snap := p.manager.Snapshot()
	fmt.Fprintf(p.out, "\n%s\n\n", snap.Material.Passage)

	for slot, q := range snap.Material.Questions {
		fmt.Fprintf(p.out, "Question %d: %s\n", slot+1, q.Text)
		p.answerQuestion(ctx, slot)
		fmt.Fprintln(p.out)
	}

	if snap := p.manager.Snapshot(); snap.Complete() {
		done := p.waitFor(func(s session.State) bool { return s.CompletionVisible }, session.CompletionDelay+2*time.Second)
		if done.CompletionVisible {
			fmt.Fprintln(p.out, "🎉 Amazing job! You answered both questions!")
		}
	}
	return nil
}

// answerQuestion loops one slot through listen → submit → assess until the
// answer is correct or the reader skips.
func (p *playSession) answerQuestion(ctx context.Context, slot int) {
	for {
		before := p.manager.Snapshot().Feedback[slot]

		if err := p.manager.BeginAnswer(ctx, slot); err != nil {
			fmt.Fprintln(p.out, "Could not start the answer:", err)
			return
		}

		input, ok := p.readAnswer()
		if !ok {
			p.stopAnswer(ctx, slot)
			p.waitFor(func(s session.State) bool { return s.Slots[slot] == session.SlotIdle }, 5*time.Second)
			fmt.Fprintln(p.out, "Skipping this question.")
			return
		}

		if err := p.manager.SubmitAnswer(slot, input); err != nil {
			fmt.Fprintln(p.out, "Could not submit the answer:", err)
		}
		p.stopAnswer(ctx, slot)

		snap := p.waitFor(func(s session.State) bool { return s.Slots[slot] == session.SlotIdle }, 2*time.Minute)
		feedback := snap.Feedback[slot]
		if feedback == before {
			// Nothing came out of the clip: no assessment ran.
			fmt.Fprintln(p.out, "I couldn't hear an answer. Let's try again!")
			continue
		}

		if feedback.Status == session.FeedbackCorrect {
			fmt.Fprintln(p.out, "✓", feedback.Message)
			return
		}
		fmt.Fprintln(p.out, "✗", feedback.Message)
	}
}

// readAnswer collects one answer: typed text, or in voice mode the contents
// of a recorded clip. ok is false when the reader skips.
func (p *playSession) readAnswer() (input []byte, ok bool) {
	if p.voice {
		path := p.ask("Recorded answer (webm path, empty to skip)", "")
		if path == "" {
			return nil, false
		}
		audio, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(p.out, "Could not read the recording:", err)
			return nil, false
		}
		return audio, true
	}

	text := p.ask("Your answer (empty to skip)", "")
	if text == "" {
		return nil, false
	}
	return []byte(text), true
}

// stopAnswer finishes a listening slot; the transcript finalizes through
// the manager asynchronously.
func (p *playSession) stopAnswer(ctx context.Context, slot int) {
	if err := p.manager.BeginAnswer(ctx, slot); err != nil {
		fmt.Fprintln(p.out, "Could not stop listening:", err)
	}
}

// waitFor polls snapshots until cond holds or the deadline passes, and
// returns the last snapshot either way.
func (p *playSession) waitFor(cond func(session.State) bool, timeout time.Duration) session.State {
	deadline := time.Now().Add(timeout)
	for {
		snap := p.manager.Snapshot()
		if cond(snap) || time.Now().After(deadline) {
			return snap
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func (p *playSession) ask(prompt, fallback string) string {
	if fallback != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, fallback)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	if !p.in.Scan() {
		return fallback
	}
	line := strings.TrimSpace(p.in.Text())
	if line == "" {
		return fallback
	}
	return line
}

func (p *playSession) askYesNo(prompt string) bool {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(p.in.Text())), "y")
}
