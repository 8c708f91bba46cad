package codex

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

const (
	// DefaultMaxSessionFiles caps how many session logs are scanned per call
	DefaultMaxSessionFiles = 200
	// DefaultTitle names plans that have no H1 heading
	DefaultTitle = "Codex Plan"

	parseWorkers = 8
	identitySize = 20 // bytes, 40 hex characters
)

var proposedPlanPattern = regexp.MustCompile(`<proposed_plan>\s*([\s\S]*?)\s*</proposed_plan>`)

// Synthesizer turns <proposed_plan> blocks in agent session logs into
// read-only virtual plans. It keeps no state between calls.
type Synthesizer struct {
	maxFiles int
}

// Verify interface compliance at compile time
var _ ports.VirtualPlanSource = (*Synthesizer)(nil)

// NewSynthesizer creates a Synthesizer scanning at most maxFiles recent logs
func NewSynthesizer(maxFiles int) *Synthesizer {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxSessionFiles
	}
	return &Synthesizer{maxFiles: maxFiles}
}

type sessionFile struct {
	modTime time.Time
	path    string
}

// List implements VirtualPlanSource.List. Plans are ordered newest first.
// When a root cannot be scanned the plans from the other roots are returned
// together with the error, so callers can tell an incomplete listing apart.
func (s *Synthesizer) List(ctx context.Context, roots []string) ([]domain.VirtualPlan, error) {
	files, scanErr := s.collectSessionFiles(ctx, roots)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	results := make([][]domain.VirtualPlan, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plans, err := parseSessionFile(f)
			if err != nil {
				logging.Logger.Debug("Failed to parse session log", "file", f.path, "error", err)
			}
			results[i] = plans
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var plans []domain.VirtualPlan
	for _, filePlans := range results {
		for _, p := range filePlans {
			if seen[p.Filename] {
				continue
			}
			seen[p.Filename] = true
			plans = append(plans, p)
		}
	}

	slices.SortFunc(plans, func(a, b domain.VirtualPlan) int {
		if c := b.ModifiedAt.Compare(a.ModifiedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Filename, b.Filename)
	})

	logging.Logger.Debug("Synthesized virtual plans", "files", len(files), "plans", len(plans))
	return plans, scanErr
}

// Get implements VirtualPlanSource.Get
func (s *Synthesizer) Get(ctx context.Context, roots []string, identity string) (*domain.VirtualPlan, error) {
	if !domain.IsVirtualIdentity(identity) {
		return nil, domain.NotFoundError(identity)
	}

	plans, err := s.List(ctx, roots)
	for i := range plans {
		if plans[i].Filename == identity {
			return &plans[i], nil
		}
	}
	if err != nil {
		return nil, err
	}
	return nil, domain.NotFoundError(identity)
}

// collectSessionFiles finds every *.jsonl below the roots and keeps the
// most recently modified ones. Roots that do not exist are skipped; roots
// that exist but cannot be scanned are reported in the joined error next
// to the files found elsewhere.
func (s *Synthesizer) collectSessionFiles(ctx context.Context, roots []string) ([]sessionFile, error) {
	var files []sessionFile
	var errs []error

	for _, root := range normalizeRoots(roots) {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.Logger.Debug("Session log directory does not exist", "directory", root)
				continue
			}
			logging.Logger.Warn("Skipping unreadable session log directory", "directory", root, "error", err)
			errs = append(errs, fmt.Errorf("stat session log directory %s: %w", root, err))
			continue
		}
		if !info.IsDir() {
			logging.Logger.Warn("Session log path is not a directory", "directory", root)
			errs = append(errs, fmt.Errorf("session log path %s is not a directory", root))
			continue
		}

		err = doublestar.GlobWalk(os.DirFS(root), "**/*.jsonl", func(path string, d fs.DirEntry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			fi, err := d.Info()
			if err != nil || !fi.Mode().IsRegular() {
				return nil
			}
			files = append(files, sessionFile{
				modTime: fi.ModTime(),
				path:    filepath.Join(root, filepath.FromSlash(path)),
			})
			return nil
		}, doublestar.WithFailOnIOErrors())
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logging.Logger.Warn("Failed to scan session log directory", "directory", root, "error", err)
			errs = append(errs, fmt.Errorf("scan session log directory %s: %w", root, err))
		}
	}

	slices.SortFunc(files, func(a, b sessionFile) int {
		if c := b.modTime.Compare(a.modTime); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})
	if len(files) > s.maxFiles {
		files = files[:s.maxFiles]
	}
	return files, errors.Join(errs...)
}

// normalizeRoots makes roots absolute and drops blanks and duplicates
func normalizeRoots(roots []string) []string {
	var result []string
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		if !slices.Contains(result, root) {
			result = append(result, root)
		}
	}
	return result
}

// parseSessionFile extracts the plans proposed in one session log. Within a
// file only the latest version of each identity is kept.
func parseSessionFile(f sessionFile) ([]domain.VirtualPlan, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024) // 1MB buffer
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line size

	byIdentity := make(map[string]domain.VirtualPlan)
	var order []string
	var cwd string

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !gjson.ValidBytes(line) {
			continue
		}
		record := gjson.ParseBytes(line)
		if !record.IsObject() {
			continue
		}

		switch stringField(record, "type") {
		case "turn_context":
			if c := record.Get("payload.cwd"); c.Type == gjson.String {
				cwd = c.String()
			}
			continue
		case "response_item":
		default:
			continue
		}

		payload := record.Get("payload")
		if stringField(payload, "type") != "message" || stringField(payload, "role") != "assistant" {
			continue
		}

		timestamp := recordTime(record, f.modTime)
		for _, part := range payload.Get("content").Array() {
			if stringField(part, "type") != "output_text" {
				continue
			}
			text := part.Get("text")
			if text.Type != gjson.String {
				continue
			}

			for _, m := range proposedPlanPattern.FindAllStringSubmatch(text.String(), -1) {
				content := strings.TrimSpace(m[1])
				if content == "" {
					continue
				}
				title := domain.ExtractTitle(content, DefaultTitle)
				plan := domain.VirtualPlan{
					Content:        content,
					Filename:       VirtualIdentity(f.path, title),
					ModifiedAt:     timestamp,
					RelatedProject: domain.ProjectName(cwd),
					SessionPath:    f.path,
					Title:          title,
				}

				existing, ok := byIdentity[plan.Filename]
				if !ok {
					order = append(order, plan.Filename)
				}
				// Later occurrences win ties
				if !ok || !plan.ModifiedAt.Before(existing.ModifiedAt) {
					byIdentity[plan.Filename] = plan
				}
			}
		}
	}

	plans := make([]domain.VirtualPlan, 0, len(order))
	for _, id := range order {
		plans = append(plans, byIdentity[id])
	}
	return plans, scanner.Err()
}

func stringField(r gjson.Result, path string) string {
	v := r.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// recordTime returns the record timestamp, or fallback when it is missing or unparseable
func recordTime(record gjson.Result, fallback time.Time) time.Time {
	if ts := stringField(record, "timestamp"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			return t.UTC()
		}
	}
	return fallback.UTC()
}

// VirtualIdentity derives the stable identity of a plan proposed in sessionPath
func VirtualIdentity(sessionPath, title string) string {
	h, err := blake2b.New(identitySize, nil)
	if err != nil {
		panic(err) // size is a valid constant
	}
	h.Write([]byte(sessionPath + ":" + TitleKey(title)))
	return domain.VirtualPrefix + hex.EncodeToString(h.Sum(nil)) + ".md"
}

// TitleKey normalizes a title so cosmetic edits keep the same identity
func TitleKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(norm.NFKC.String(title)))), " ")
}
