package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/SaadAmawi/VocalFlow/internal/flow"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Author the interview flow",
}

var flowCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create (or replace) the interview flow interactively",
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

		titlePrompt := promptui.Prompt{
			Label: "Flow title",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title must not be empty")
				}
				return nil
			},
		}
		title, err := titlePrompt.Run()
		if err != nil {
			return err
		}

		endpointPrompt := promptui.Prompt{
			Label: "Destination endpoint (empty to skip webhook delivery)",
			Validate: func(s string) error {
				if s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
					return nil
				}
				return fmt.Errorf("must begin with http:// or https://")
			},
		}
		endpoint, err := endpointPrompt.Run()
		if err != nil {
			return err
		}

		f := flow.New(title)
		f.DestinationEndpoint = endpoint

		ctx := context.Background()
		clipDir := filepath.Join(cfg.DataDir, "clips")
		for {
			textPrompt := promptui.Prompt{
				Label: fmt.Sprintf("Question %d", len(f.Questions)+1),
				Validate: func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("question text must not be empty")
					}
					return nil
				},
			}
			text, err := textPrompt.Run()
			if err != nil {
				return err
			}

			clipRef := ""
			if confirm("Record a prompt clip for this question") {
				clip, err := captureClip(ctx, cfg, cfg.Capture.PromptMaxSeconds)
				if err != nil {
					return fmt.Errorf("recording prompt clip: %w", err)
				}
				clipRef, err = clip.WriteFile(clipDir)
				if err != nil {
					return err
				}
				fmt.Printf("Saved prompt clip to %s\n", clipRef)
			}

			f.AddQuestion(text, clipRef)

			if !confirm("Add another question") {
				break
			}
		}

		if err := store.Save(ctx, f); err != nil {
			return err
		}
		fmt.Printf("Saved flow %q with %d question(s)\n", f.Title, len(f.Questions))
		return nil
	},
}

var flowShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored interview flow",
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

		f, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		if f == nil {
			fmt.Println("No flow has been saved. Run `vocalflow flow create` first.")
			return nil
		}

		fmt.Printf("%s\n", f.Title)
		if f.DestinationEndpoint != "" {
			fmt.Printf("Delivers results to %s\n", f.DestinationEndpoint)
		}
		for i, q := range f.Questions {
			fmt.Printf("%2d. %s  (id %s)\n", i+1, q.Text, q.ID)
			if q.PromptClipRef != "" {
				fmt.Printf("    prompt clip: %s\n", q.PromptClipRef)
			}
		}
		return nil
	},
}

var flowRemoveQuestionCmd = &cobra.Command{
	Use:   "remove-question <question-id>",
	Short: "Remove a question from the stored flow",
	Args:  cobra.ExactArgs(1),
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

		ctx := cmd.Context()
		f, err := store.Load(ctx)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("no flow has been saved")
		}
		if !f.RemoveQuestion(args[0]) {
			return fmt.Errorf("no question with id %q", args[0])
		}
		if err := store.Save(ctx, f); err != nil {
			return err
		}
		fmt.Printf("Removed question %s (%d remaining)\n", args[0], len(f.Questions))
		return nil
	},
}

var flowSetEndpointCmd = &cobra.Command{
	Use:   "set-endpoint <url>",
	Short: "Set or clear the flow's destination endpoint",
	Args:  cobra.MaximumNArgs(1),
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

		ctx := cmd.Context()
		f, err := store.Load(ctx)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("no flow has been saved")
		}
		if len(args) == 1 {
			f.DestinationEndpoint = args[0]
		} else {
			f.DestinationEndpoint = ""
		}
		return store.Save(ctx, f)
	},
}

func init() {
	flowCmd.AddCommand(flowCreateCmd)
	flowCmd.AddCommand(flowShowCmd)
	flowCmd.AddCommand(flowRemoveQuestionCmd)
	flowCmd.AddCommand(flowSetEndpointCmd)
	rootCmd.AddCommand(flowCmd)
}
