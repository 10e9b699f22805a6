// Package main provides the pathfinder CLI: an interactive career advisor
// chat and one-shot roadmap generation in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swaggyashwin/pathfinder/internal/career"
	"github.com/swaggyashwin/pathfinder/internal/config"
	"github.com/swaggyashwin/pathfinder/internal/llm"
	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/internal/orchestrator"
	"github.com/swaggyashwin/pathfinder/internal/render"
	"github.com/swaggyashwin/pathfinder/internal/responder"
	"github.com/swaggyashwin/pathfinder/internal/roadmap"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
)

var (
	envFile  string
	logLevel string
	selector string
	seed     int64
	plain    bool
	format   string
	category string
	width    int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "Career roadmap advisor",
	Long: `Pathfinder chats about your background and career goals and builds a
phased learning roadmap for the role you are aiming at.`,
	SilenceUsage: true,
	RunE:         runChat,
}

// chatCmd represents the chat command (explicit version of default behavior)
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive advisor chat",
	Long: `Start an interactive chat. Commands:
  /reset                         start over (generated roadmaps are kept in history)
  /export [json|yaml|markdown]   print the current roadmap
  /history                       list roadmaps generated in this chat
  /quit                          leave`,
	RunE: runChat,
}

// roadmapCmd generates a roadmap without a conversation
var roadmapCmd = &cobra.Command{
	Use:   "roadmap [goal...]",
	Short: "Generate a roadmap from a description of your goal",
	Example: `  pathfinder roadmap I want to move into data science
  pathfinder roadmap --category ux_designer -f yaml`,
	RunE: runRoadmap,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the career categories roadmaps exist for",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, c := range career.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", c, c.DisplayName())
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file if it exists")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Set log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Print Markdown without terminal styling")
	rootCmd.PersistentFlags().IntVar(&width, "width", 80, "Wrap rendered output at this many columns")

	for _, cmd := range []*cobra.Command{rootCmd, chatCmd} {
		cmd.Flags().StringVar(&selector, "selector", "", "Follow-up selection (round_robin|seeded) [default: RESPONDER_SELECTOR]")
		cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the seeded selector [default: RESPONDER_SEED]")
	}
	roadmapCmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format (json|yaml|markdown)")
	roadmapCmd.Flags().StringVarP(&category, "category", "c", "", "Build the roadmap for this category instead of resolving one from the goal (see 'pathfinder categories')")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return err
	}
	log, err := logger.NewDevelopment(logLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	kind := cfg.ResponderSelector
	if selector != "" {
		kind = selector
	}
	s := cfg.ResponderSeed
	if cmd.Flags().Changed("seed") {
		s = seed
	}

	llmClient, err := llm.FromKeys(llm.Provider(cfg.DefaultLLM), cfg.AnthropicAPIKey, cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		log.Warn("failed to create LLM client, using scripted replies", zap.Error(err))
		llmClient = nil
	}

	orch, err := orchestrator.NewDefault(
		responder.NewSelectorFactory(responder.SelectorKind(kind), s),
		orchestrator.WithLLM(llmClient, cfg.LLMTimeout, log),
	)
	if err != nil {
		return fmt.Errorf("invalid roadmap templates: %w", err)
	}

	show, err := roadmapPrinter()
	if err != nil {
		return err
	}

	c := &chat{
		orchestrator: orch,
		session:      orchestrator.NewSession(),
		out:          cmd.OutOrStdout(),
		show:         show,
	}
	return c.run(cmd.Context(), cmd.InOrStdin())
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}

	store, err := roadmap.LoadDefaultStore()
	if err != nil {
		return fmt.Errorf("invalid roadmap templates: %w", err)
	}
	synthesizer, err := roadmap.NewSynthesizer(career.NewResolver(), store)
	if err != nil {
		return fmt.Errorf("invalid roadmap templates: %w", err)
	}

	var rm model.Roadmap
	switch {
	case category != "":
		c, err := career.ParseCategory(category)
		if err != nil {
			return err
		}
		rm = synthesizer.ForCategory(c)
	case len(args) > 0:
		rm, _ = synthesizer.Synthesize(strings.Join(args, " "))
	default:
		return errors.New("describe your goal or pass --category")
	}

	if f == render.FormatMarkdown {
		show, err := roadmapPrinter()
		if err != nil {
			return err
		}
		out, err := show(&rm)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	return render.Encode(cmd.OutOrStdout(), &rm, f)
}

// roadmapPrinter returns the function used to show a roadmap: plain Markdown
// with --plain, otherwise styled for the terminal.
func roadmapPrinter() (func(*model.Roadmap) (string, error), error) {
	if plain {
		return func(rm *model.Roadmap) (string, error) {
			return render.Markdown(rm), nil
		}, nil
	}
	term, err := render.NewTerminal(width)
	if err != nil {
		return nil, err
	}
	return term.Roadmap, nil
}
