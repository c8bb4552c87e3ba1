package cli

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/pkg/approval"
	"github.com/harun/rcrm/pkg/orchestrator"
	"github.com/harun/rcrm/pkg/toolregistry"
	"github.com/spf13/cobra"
)

var (
	planTool      string
	planConfirm   bool
	planYes       bool
	toolsCategory string
	searchLimit   int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Suggest the best tools for a request",
	Long: `Suggest up to three tools for a free-text request, each with its execution
plan, together with the detected intents, entities and complexity.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank catalog tools against a request",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var planCmd = &cobra.Command{
	Use:   "plan [query]",
	Short: "Build an execution plan for a request",
	Long: `Build the ordered list of tool calls for a request. Without --tool the best
matching tool is used as the primary tool. With --confirm every step that
requires confirmation is reviewed interactively; --yes approves them all.`,
	RunE: runPlan,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List catalog tools",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

var intentCmd = &cobra.Command{
	Use:   "intent <query>",
	Short: "Analyze the intent of a request",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIntent,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum number of tools (default from config)")

	planCmd.Flags().StringVar(&planTool, "tool", "", "primary tool to plan for")
	planCmd.Flags().BoolVar(&planConfirm, "confirm", false, "review steps that require confirmation")
	planCmd.Flags().BoolVarP(&planYes, "yes", "y", false, "approve every step that requires confirmation")
	planCmd.MarkFlagsMutuallyExclusive("confirm", "yes")

	toolsCmd.Flags().StringVar(&toolsCategory, "category", "", "only list tools in this category")

	rootCmd.AddCommand(suggestCmd, searchCmd, planCmd, toolsCmd, intentCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	suggestions, err := a.orch.GetToolSuggestions(joinQuery(args))
	if err != nil {
		return err
	}
	return printJSON(cmd, suggestions)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	limit := searchLimit
	if limit == 0 {
		limit = a.cfg.Orchestrator.DefaultLimit
	}
	return printJSON(cmd, a.holder.FindRelevantScored(joinQuery(args), limit))
}

type planOutput struct {
	Steps    []orchestrator.ExecutionStep `json:"steps"`
	Decision *approval.Decision           `json:"decision,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	query := joinQuery(args)
	if query == "" && planTool == "" {
		return errors.New("a query or --tool is required")
	}

	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	steps, err := a.orch.CreateExecutionPlan(query, planTool)
	if err != nil {
		return err
	}

	out := planOutput{Steps: steps}
	if !planConfirm && !planYes {
		return printJSON(cmd, out)
	}

	var handler approval.Handler = approval.AutoHandler{Approve: true}
	if planConfirm {
		// prompts go to stderr so stdout stays valid JSON
		handler = approval.NewCLIHandler(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	manager := approval.NewManager(handler, a.logger.With().Str("component", "approval").Logger())
	manager.SetDefaultTimeout(time.Duration(a.cfg.Approval.Timeout) * time.Second)
	if a.audit != nil {
		manager.SetAuditor(a.audit)
	}

	decision, reviewErr := manager.Review(a.ctx, steps)
	out.Decision = &decision
	if err := printJSON(cmd, out); err != nil {
		return err
	}
	if reviewErr != nil {
		return reviewErr
	}
	if !decision.Complete() {
		return errors.Newf("plan stopped at %s: %s", decision.Blocked[0].ToolName, decision.Reason)
	}
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if toolsCategory == "" {
		return printJSON(cmd, a.holder.List())
	}

	category, err := toolregistry.ParseCategory(toolsCategory)
	if err != nil {
		return err
	}
	return printJSON(cmd, a.holder.ToolsByCategory(category))
}

func runIntent(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	return printJSON(cmd, a.orch.AnalyzeQueryIntent(joinQuery(args)))
}
