package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SaadAmawi/VocalFlow/internal/analyzer"
	"github.com/SaadAmawi/VocalFlow/internal/session"
	"github.com/SaadAmawi/VocalFlow/internal/webhook"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a candidate interview session in the terminal",
	Long: `Steps a candidate through the stored flow one question at a time.
Each recorded answer is analyzed remotely; after the last question the
aggregated results are delivered to the flow's destination endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, database, err := openFlowStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := store.Load(ctx)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("no flow has been saved; run `vocalflow flow create` first")
		}
		if cfg.Webhook != "" {
			f.DestinationEndpoint = cfg.Webhook
		}

		az, err := analyzer.NewAnalyzer(string(cfg.Provider), cfg.Model)
		if err != nil {
			return err
		}

		orch, err := session.New(f, az, webhook.NewClient())
		if err != nil {
			return err
		}

		fmt.Printf("%s — %d question(s)\n", f.Title, len(f.Questions))
		fmt.Println("Press Ctrl-C at any point to abandon the session.")
		fmt.Println()

		total := len(f.Questions)
		for {
			q, ok := orch.CurrentQuestion()
			if !ok {
				break
			}
			if ctx.Err() != nil {
				orch.Cancel()
				fmt.Println("\nSession abandoned; nothing was submitted.")
				return nil
			}

			fmt.Printf("Question %d of %d: %s\n", orch.QuestionIndex()+1, total, q.Text)
			if q.PromptClipRef != "" {
				fmt.Printf("(prompt clip: %s)\n", q.PromptClipRef)
			}

			clip, err := captureClip(ctx, cfg, cfg.Capture.AnswerMaxSeconds)
			if err != nil {
				return fmt.Errorf("recording answer: %w", err)
			}

			fmt.Println("Analyzing your answer...")
			result, err := orch.SubmitAnswer(ctx, clip)
			if err != nil {
				fmt.Printf("Something went wrong analyzing that answer: %v\n", err)
				fmt.Println("Let's try the same question again.")
				continue
			}

			fmt.Printf("  sentiment: %s, score: %d\n", result.Sentiment, result.Score)
			if len(result.KeyPoints) > 0 {
				fmt.Printf("  key points: %s\n", strings.Join(result.KeyPoints, "; "))
			}
			fmt.Println()
		}

		if orch.State() == session.StateExited {
			fmt.Println("Session abandoned; nothing was submitted.")
			return nil
		}

		fmt.Println("Interview complete. Thank you!")
		if w := orch.Warning(); w != "" {
			fmt.Printf("Warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
