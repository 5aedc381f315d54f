package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inercia/go-llm-heuristics/pkg/intent"
	"github.com/inercia/go-llm-heuristics/pkg/llm"
	"github.com/inercia/go-llm-heuristics/pkg/suggest"
	"github.com/inercia/go-llm-heuristics/pkg/translate"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var threshold float64

	cmd := &cobra.Command{
		Use:   "classify [prompt]",
		Short: "Decide whether a prompt asks for an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			gw, err := ctx.gateway()
			if err != nil {
				return err
			}

			classifier := intent.New(gw,
				intent.WithLogger(ctx.ensureLogger()),
				intent.WithThreshold(threshold))
			outcome := classifier.Classify(cmd.Context(), input, "")

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), outcome)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Wanted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full outcome as JSON")
	cmd.Flags().Float64Var(&threshold, "threshold", intent.DefaultThreshold, "Minimum confidence for a positive answer")
	return cmd
}

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text to English unless it already contains no CJK ideographs",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			gw, err := ctx.gateway()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("attempts") && ctx.config.MaxRetries > 0 {
				attempts = ctx.config.MaxRetries
			}
			normalizer := translate.New(gw,
				translate.WithLogger(ctx.ensureLogger()),
				translate.WithMaxAttempts(attempts))

			fmt.Fprintln(cmd.OutOrStdout(), normalizer.Normalize(cmd.Context(), input, ""))
			return nil
		},
	}

	cmd.Flags().IntVar(&attempts, "attempts", translate.DefaultMaxAttempts, "Maximum gateway calls spent on the translation (default from max_retries)")
	return cmd
}

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suggest [answer]",
		Short: "Suggest follow-up questions for an assistant answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			gw, err := ctx.gateway()
			if err != nil {
				return err
			}

			questions, err := suggest.New(gw, suggest.WithLogger(ctx.ensureLogger())).
				FollowUps(cmd.Context(), input, "")
			if err != nil {
				return fmt.Errorf("suggest: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), questions)
			}
			for _, q := range questions {
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the questions as a JSON array")
	return cmd
}

func newModelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models served by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			lister, ok := client.(llm.ModelLister)
			if !ok {
				return fmt.Errorf("provider %q cannot list models", client.GetModelInfo().Provider)
			}

			models, err := lister.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

// inputText joins the positional arguments, or reads stdin when there are none
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no input: pass it as arguments or on stdin")
	}
	return text, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
