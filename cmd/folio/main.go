package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/bubbletea"
	"github.com/foliopatch/folio/chroma"
	"github.com/foliopatch/folio/clipboard"
	"github.com/foliopatch/folio/fs"
	"github.com/foliopatch/folio/gemini"
	"github.com/foliopatch/folio/git"
	"github.com/foliopatch/folio/gitdiff"
	"github.com/foliopatch/folio/jsonl"
	"github.com/foliopatch/folio/lipgloss"
	"github.com/foliopatch/folio/patch"
	"github.com/foliopatch/folio/profile"
	"github.com/foliopatch/folio/unidiff"
	"github.com/foliopatch/folio/worddiff"
	"golang.org/x/sync/errgroup"
)

// readmePath is the profile document edited in the profile repository.
const readmePath = "README.md"

// ErrVerificationFailed is returned when the post-commit verification step
// fails and the transaction has been rolled back.
var ErrVerificationFailed = errors.New("verification failed")

// ErrDuplicateEntry is reported when the project is already listed. It is a
// warning, not a failure: the run produces zero change records.
var ErrDuplicateEntry = errors.New("project already listed")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, ErrVerificationFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: folio <submit|batch|preview|snippets> [flags]\n\nCommands:\n  submit    Add one project to the profile and site repositories\n  batch     Process a JSON array of projects non-interactively\n  preview   Show the diff an action plan would produce, without applying it\n  snippets  List the cross-run snippet log")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch os.Args[1] {
	case "submit":
		return runSubmit(ctx, os.Args[2:])
	case "batch":
		return runBatch(ctx, os.Args[2:])
	case "preview":
		return runPreview(ctx, os.Args[2:])
	case "snippets":
		return runSnippets(os.Args[2:])
	default:
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

// App wires the collaborators for one submission run.
type App struct {
	Generator folio.EntryGenerator // nil = template construction only
	Describer folio.Describer      // nil = projects keep their given description
	Reviewer  folio.Reviewer
	Verifier  folio.Verifier // nil = skip verification
	Viewer    folio.Viewer   // used by Preview
	Parser    folio.Parser   // used by Preview
	Repo      folio.RepoReader
	Log       folio.SnippetLog
	LogPath   string
	Owner     string // used when bootstrapping a missing profile document
	Stderr    io.Writer

	locks repoLocks
}

// repoLocks hands out one mutex per repository root. A repository's snapshot
// has a single owner at a time: concurrent submissions targeting the same
// root take turns through the analyze-to-commit section.
type repoLocks struct {
	mu    sync.Mutex
	roots map[string]*sync.Mutex
}

func (l *repoLocks) root(root string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.roots == nil {
		l.roots = make(map[string]*sync.Mutex)
	}
	key := filepath.Clean(root)
	m, ok := l.roots[key]
	if !ok {
		m = &sync.Mutex{}
		l.roots[key] = m
	}
	return m
}

func runSubmit(ctx context.Context, args []string) error {
	fl := flag.NewFlagSet("submit", flag.ContinueOnError)
	projectPath := fl.String("project", "", "project metadata JSON (\"-\" for stdin)")
	profileRoot := fl.String("profile", "", "profile repository root")
	siteRoot := fl.String("site", "", "site repository root (optional)")
	planPath := fl.String("plan", "", "site action plan JSON (requires -site)")
	verifyCmd := fl.String("verify", "", "verification command run in each repository after commit")
	logPath := fl.String("log", fs.DefaultSnippetLogPath(), "snippet log path")
	owner := fl.String("owner", "", "profile owner name, used when bootstrapping a new document")
	yes := fl.Bool("yes", false, "accept all changes without interactive review")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *projectPath == "" || *profileRoot == "" {
		return fmt.Errorf("submit requires -project and -profile")
	}
	if *planPath != "" && *siteRoot == "" {
		return fmt.Errorf("-plan requires -site")
	}

	project, err := loadProject(*projectPath)
	if err != nil {
		return err
	}
	plan, err := loadPlan(*planPath)
	if err != nil {
		return err
	}

	client := newGeminiClient(ctx)
	app := &App{
		Generator: newGenerator(client),
		Describer: newDescriber(client),
		Reviewer:  newReviewer(*yes),
		Verifier:  newVerifier(*verifyCmd),
		Repo:      git.NewRunner(),
		Log:       jsonl.NewLog(),
		LogPath:   *logPath,
		Owner:     *owner,
		Stderr:    os.Stderr,
	}

	return app.Submit(ctx, project, *profileRoot, *siteRoot, plan)
}

func runBatch(ctx context.Context, args []string) error {
	fl := flag.NewFlagSet("batch", flag.ContinueOnError)
	projectsPath := fl.String("projects", "", "JSON array of project records")
	profileRoot := fl.String("profile", "", "profile repository root")
	verifyCmd := fl.String("verify", "", "verification command run in each repository after commit")
	logPath := fl.String("log", fs.DefaultSnippetLogPath(), "snippet log path")
	owner := fl.String("owner", "", "profile owner name, used when bootstrapping a new document")
	limit := fl.Int("limit", 4, "max concurrent submissions")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *projectsPath == "" || *profileRoot == "" {
		return fmt.Errorf("batch requires -projects and -profile")
	}

	data, err := os.ReadFile(*projectsPath)
	if err != nil {
		return err
	}
	var projects []folio.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return fmt.Errorf("parsing %s: %w", *projectsPath, err)
	}

	client := newGeminiClient(ctx)
	app := &App{
		Generator: newGenerator(client),
		Describer: newDescriber(client),
		Reviewer:  acceptAll{},
		Verifier:  newVerifier(*verifyCmd),
		Repo:      git.NewRunner(),
		Log:       jsonl.NewLog(),
		LogPath:   *logPath,
		Owner:     *owner,
		Stderr:    os.Stderr,
	}

	// Each project gets an isolated outcome: one failure never cancels the
	// remaining submissions. Errors are collected, not propagated to the group.
	var mu sync.Mutex
	var failures []error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(*limit)
	for _, project := range projects {
		project := project
		g.Go(func() error {
			if err := app.Submit(ctx, project, *profileRoot, "", nil); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", project.Title, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, f := range failures {
		fmt.Fprintln(os.Stderr, f)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d submissions failed", len(failures), len(projects))
	}
	return nil
}

func runPreview(ctx context.Context, args []string) error {
	fl := flag.NewFlagSet("preview", flag.ContinueOnError)
	planPath := fl.String("plan", "", "action plan JSON")
	root := fl.String("repo", "", "repository root the plan applies to")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *planPath == "" || *root == "" {
		return fmt.Errorf("preview requires -plan and -repo")
	}

	plan, err := loadPlan(*planPath)
	if err != nil {
		return err
	}

	app := &App{
		Viewer: newViewer(),
		Parser: gitdiff.NewParser(),
		Stderr: os.Stderr,
	}
	return app.Preview(ctx, *root, plan)
}

func runSnippets(args []string) error {
	fl := flag.NewFlagSet("snippets", flag.ContinueOnError)
	logPath := fl.String("log", fs.DefaultSnippetLogPath(), "snippet log path")
	if err := fl.Parse(args); err != nil {
		return err
	}

	snippets, err := jsonl.NewLog().Load(*logPath)
	if err != nil {
		return err
	}
	for _, s := range snippets {
		fmt.Printf("%s  %s  %s\n", s.AddedAt.Format("2006-01-02"), s.Title, s.RepoURL)
	}
	return nil
}

// Submit runs the full pipeline for one project. The site and profile
// repositories get independent transactions: a failure in one is reported but
// never rolls back or blocks the other.
func (a *App) Submit(ctx context.Context, project folio.Project, profileRoot, siteRoot string, plan []folio.Action) error {
	var errs []error

	if project.Description == "" && a.Describer != nil {
		desc, err := a.Describer.Describe(ctx, project)
		if err != nil {
			fmt.Fprintf(a.Stderr, "warning: describing %s: %v\n", project.Title, err)
		} else {
			project.Description = desc
		}
	}

	if siteRoot != "" && len(plan) > 0 {
		if err := a.applyPlan(ctx, siteRoot, plan); err != nil {
			errs = append(errs, fmt.Errorf("site: %w", err))
		}
	}

	if err := a.submitProfile(ctx, project, profileRoot); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			fmt.Fprintf(a.Stderr, "warning: %s: %v\n", project.Title, err)
		} else {
			errs = append(errs, fmt.Errorf("profile: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Preview stages a plan, renders the resulting unified diff, and shows it in
// the read-only pager. Nothing is committed: the repository is left untouched.
func (a *App) Preview(ctx context.Context, root string, plan []folio.Action) error {
	tx := patch.New(root)
	for _, action := range plan {
		if _, err := tx.Apply(action); err != nil {
			return err
		}
	}

	var sb strings.Builder
	for _, record := range tx.Records() {
		sb.WriteString(unidiff.Text(record))
	}
	if sb.Len() == 0 {
		fmt.Fprintln(a.Stderr, "plan produces no changes")
		return nil
	}

	diff, err := a.Parser.Parse(strings.NewReader(sb.String()))
	if err != nil {
		return err
	}
	return a.Viewer.View(ctx, diff)
}

// applyPlan applies a declarative action plan to one repository.
func (a *App) applyPlan(ctx context.Context, root string, plan []folio.Action) error {
	lock := a.locks.root(root)
	lock.Lock()
	defer lock.Unlock()

	tx := patch.New(root)
	for _, action := range plan {
		if _, err := tx.Apply(action); err != nil {
			return err
		}
	}
	return a.finish(ctx, tx, nil)
}

// submitProfile analyzes the profile document, generates a format-matched
// entry, and stages the insertion plus any skills-badge augmentation.
func (a *App) submitProfile(ctx context.Context, project folio.Project, root string) error {
	// The duplicate check and the insertion must see the same document state,
	// so the whole section holds the root's lock.
	lock := a.locks.root(root)
	lock.Lock()
	defer lock.Unlock()

	tx := patch.New(root)

	content, exists, err := readFile(filepath.Join(root, readmePath))
	if err != nil {
		return err
	}
	if !exists {
		content = profile.MinimalDocument(a.Owner)
		if _, err := tx.Apply(folio.Action{
			Path:    readmePath,
			Kind:    folio.KindCreate,
			Content: content,
		}); err != nil {
			return err
		}
	}

	if err := a.checkDuplicate(ctx, root, content, project); err != nil {
		return err
	}

	hint, err := profile.Parse(content)
	if errors.Is(err, profile.ErrNoSection) {
		// Bootstrap an empty Projects section and analyze again.
		record, applyErr := tx.Apply(folio.Action{
			Path:    readmePath,
			Kind:    folio.KindAppend,
			Content: profile.BootstrapSection,
		})
		if applyErr != nil {
			return applyErr
		}
		content = record.After
		hint, err = profile.Parse(content)
	}
	if err != nil {
		return err
	}

	entry := a.entryFor(ctx, project, *hint)

	line := profile.PlanInsertion(*hint, priorityOf(project))
	action, err := profile.InsertAction(content, readmePath, entry, line)
	if err != nil {
		return err
	}
	record, err := tx.Apply(action)
	if err != nil {
		return err
	}

	if skills, ok := profile.SkillsAction(record.After, readmePath, project); ok {
		if _, err := tx.Apply(skills); err != nil {
			return err
		}
	}

	snippet := &folio.Snippet{
		Title:   project.Title,
		RepoURL: project.RepoURL,
		Text:    entry,
		AddedAt: time.Now().UTC(),
	}
	return a.finish(ctx, tx, snippet)
}

// finish reviews, commits, and verifies one transaction. The snippet, if any,
// is logged only after a successful commit.
func (a *App) finish(ctx context.Context, tx *patch.Transaction, snippet *folio.Snippet) error {
	records := tx.Records()
	if len(records) == 0 {
		return nil
	}

	accepted, err := a.Reviewer.Review(ctx, records)
	if err != nil {
		return err
	}
	if len(accepted) == 0 {
		fmt.Fprintln(a.Stderr, "no changes accepted")
		return nil
	}

	if err := tx.Commit(accepted); err != nil {
		return err
	}

	if a.Verifier != nil {
		if err := a.Verifier.Verify(ctx, tx.Root(), accepted); err != nil {
			if rbErr := tx.Rollback(accepted); rbErr != nil {
				return fmt.Errorf("%w: %v (rollback also failed: %v)", ErrVerificationFailed, err, rbErr)
			}
			return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
	}

	if snippet != nil && a.Log != nil {
		if err := a.Log.Append(a.LogPath, *snippet); err != nil {
			// The commit already succeeded; a side-log failure is a warning.
			fmt.Fprintf(a.Stderr, "warning: snippet log: %v\n", err)
		}
	}
	return nil
}

// checkDuplicate looks for the project in the published default-branch
// document first, falling back to the working-tree content when the
// repository has no usable default branch.
func (a *App) checkDuplicate(ctx context.Context, root, content string, project folio.Project) error {
	if a.Repo != nil {
		if published, err := a.Repo.DefaultBranchFile(ctx, root, readmePath); err == nil {
			if profile.IsDuplicate(published, project) {
				return ErrDuplicateEntry
			}
		}
	}
	if profile.IsDuplicate(content, project) {
		return ErrDuplicateEntry
	}
	return nil
}

// entryFor produces the entry to insert: generator output when it passes
// validation, template construction otherwise.
func (a *App) entryFor(ctx context.Context, project folio.Project, hint folio.Hint) string {
	if a.Generator != nil {
		entry, err := a.Generator.Generate(ctx, project, hint)
		if err != nil {
			fmt.Fprintf(a.Stderr, "warning: entry generation failed: %v\n", err)
		} else if checkErr := folio.CheckEntry(entry, hint); checkErr != nil {
			fmt.Fprintf(a.Stderr, "warning: generated entry rejected: %v\n", checkErr)
		} else {
			return entry
		}
	}
	return profile.ConstructEntry(project, hint.SampleEntry, hint.Format)
}

func priorityOf(project folio.Project) folio.Priority {
	if project.Priority == "" {
		return folio.PriorityBottom
	}
	return project.Priority
}

// newGeminiClient builds the shared Gemini client, or nil when no API key is
// configured (template construction still works without one).
func newGeminiClient(ctx context.Context) *gemini.Client {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil
	}
	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: gemini client: %v\n", err)
		return nil
	}
	return client
}

// newGenerator builds the cached entry generator.
func newGenerator(client *gemini.Client) folio.EntryGenerator {
	if client == nil {
		return nil
	}
	generator := gemini.NewGenerator(client, gemini.DefaultModel)
	return fs.NewGenerator(generator, fs.DefaultCacheDir())
}

// newDescriber fills in missing project descriptions.
func newDescriber(client *gemini.Client) folio.Describer {
	if client == nil {
		return nil
	}
	return gemini.NewDescriber(client, gemini.DefaultModel)
}

// newReviewer builds the interactive TUI reviewer, or an accept-everything
// reviewer for -yes runs.
func newReviewer(autoAccept bool) folio.Reviewer {
	if autoAccept {
		return acceptAll{}
	}

	theme := lipgloss.DefaultTheme()
	opts := []bubbletea.ReviewModelOption{
		bubbletea.WithStyles(theme.Styles()),
		bubbletea.WithLanguageDetector(chroma.NewDetector()),
		bubbletea.WithWordDiffer(worddiff.NewDiffer()),
		bubbletea.WithClipboard(clipboard.New()),
	}
	if tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(theme.Palette())); err == nil {
		opts = append(opts, bubbletea.WithTokenizer(tokenizer))
	}
	return bubbletea.NewReviewer(gitdiff.NewParser(), opts...)
}

// newViewer builds the read-only diff pager used by preview.
func newViewer() folio.Viewer {
	theme := lipgloss.DefaultTheme()
	opts := []bubbletea.ViewerOption{
		bubbletea.ViewerWithStyles(theme.Styles()),
		bubbletea.ViewerWithLanguageDetector(chroma.NewDetector()),
		bubbletea.ViewerWithWordDiffer(worddiff.NewDiffer()),
	}
	if tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(theme.Palette())); err == nil {
		opts = append(opts, bubbletea.ViewerWithTokenizer(tokenizer))
	}
	return bubbletea.NewViewer(opts...)
}

// acceptAll is the non-interactive reviewer: every record is accepted.
type acceptAll struct{}

func (acceptAll) Review(_ context.Context, records []folio.ChangeRecord) ([]folio.ChangeRecord, error) {
	return records, nil
}

// newVerifier wraps a shell command as the post-commit verification step.
func newVerifier(command string) folio.Verifier {
	if command == "" {
		return nil
	}
	return &commandVerifier{command: command}
}

type commandVerifier struct {
	command string
}

func (v *commandVerifier) Verify(ctx context.Context, repoRoot string, _ []folio.ChangeRecord) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", v.command)
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", v.command, strings.TrimSpace(string(out)))
	}
	return nil
}

func loadProject(path string) (folio.Project, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return folio.Project{}, err
	}

	var project folio.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return folio.Project{}, fmt.Errorf("parsing project: %w", err)
	}
	if project.Title == "" || project.RepoURL == "" {
		return folio.Project{}, fmt.Errorf("project requires title and repo_url")
	}
	return project, nil
}

func loadPlan(path string) ([]folio.Action, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan []folio.Action
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	return plan, nil
}

func readFile(path string) (content string, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}
