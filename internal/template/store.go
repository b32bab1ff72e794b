// =============================================================================
// Catalog Scanner - Template Store
// =============================================================================
//
// Durable catalog of wholesaler templates, backed by a single JSON document
// mapping name -> template. The whole document is loaded into memory at
// construction and rewritten in full on every mutation; there are no
// partial writes. A missing or corrupt backing file is treated as an empty
// store (logged, never fatal) so one bad write cannot brick the catalog.
//
// CONTRACTS WORTH READING TWICE:
//   - Get is a read WITH side effects: it bumps the usage counters and
//     persists. Callers needing a pure read must not call it twice.
//   - Expected misuse (empty name, empty mappings, unknown name) is
//     reported through return values, never through errors or panics.
//   - Mutating operations are a critical section guarded by one mutex per
//     store instance. Concurrent external writers to the backing file are
//     not supported.
//   - Match and suggestion iteration follows insertion order (name-sorted
//     after a reload, since JSON objects carry no order), making tie-breaks
//     deterministic.
//
// =============================================================================

package template

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// matchThreshold is the minimum combined score FindMatching requires.
const matchThreshold = 0.5

// filenameBonus is the score contribution of a name/filename containment
// match.
const filenameBonus = 0.3

// overlapWeight scales the column-overlap fraction into the match score.
const overlapWeight = 0.7

// suggestThreshold is the minimum header-set similarity for Suggest.
const suggestThreshold = 0.2

// Match is a scored template suggestion.
type Match struct {
	Name  string
	Score float64
}

// Store manages wholesaler templates persisted to a single JSON file.
type Store struct {
	mu        sync.Mutex
	path      string
	templates map[string]*Template
	// order tracks template insertion order for deterministic iteration.
	order  []string
	logger *zap.Logger
	now    func() time.Time
}

// NewStore opens (or initializes) the template store backed by the given
// file. The file's directory is created if needed. A corrupt or missing
// file yields an empty store; the condition is logged, not returned.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		path:      path,
		templates: make(map[string]*Template),
		logger:    logger,
		now:       time.Now,
	}
	s.load()
	return s
}

// load reads the backing document into memory.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no existing templates, starting fresh", zap.String("path", s.path))
		} else {
			s.logger.Error("failed to read templates file", zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var doc map[string]*Template
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Error("templates file is corrupt, starting fresh",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	for name, tpl := range doc {
		if tpl == nil {
			continue
		}
		tpl.Name = name
		if tpl.ColumnMappings == nil {
			tpl.ColumnMappings = make(map[string]string)
		}
		if tpl.Metadata == nil {
			tpl.Metadata = make(map[string]any)
		}
		s.templates[name] = tpl
		s.order = append(s.order, name)
	}
	sort.Strings(s.order)
	s.logger.Info("loaded templates", zap.Int("count", len(s.templates)))
}

// persist rewrites the whole backing document. Callers hold the mutex.
func (s *Store) persist() bool {
	doc := make(map[string]*Template, len(s.templates))
	for name, tpl := range s.templates {
		doc[name] = tpl
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode templates", zap.Error(err))
		return false
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Error("failed to create templates directory", zap.String("dir", dir), zap.Error(err))
			return false
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("failed to write templates file", zap.String("path", s.path), zap.Error(err))
		return false
	}
	return true
}

// Save creates a template or updates an existing one under the same name.
//
// On update the metadata is shallow-merged (new keys override), the
// mappings, currency, and VAT flag are replaced, and the usage counters are
// bumped. The store is persisted before returning.
//
// RETURNS:
//   - false when the name trims to empty, the mappings are empty, or the
//     write to disk fails. No error is raised for expected misuse.
func (s *Store) Save(name string, mappings map[string]string, currency string, vatIncluded bool, metadata map[string]any) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.Error("template name cannot be empty")
		return false
	}
	if len(mappings) == 0 {
		s.logger.Error("column mappings cannot be empty", zap.String("name", name))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.templates[name]; ok {
		existing.ColumnMappings = copyMappings(mappings)
		existing.Currency = currency
		existing.VATIncluded = vatIncluded
		for k, v := range metadata {
			existing.Metadata[k] = v
		}
		existing.LastUsedDate = now
		existing.UseCount++
		s.logger.Info("updated template", zap.String("name", name))
	} else {
		tpl := &Template{
			Name:           name,
			ColumnMappings: copyMappings(mappings),
			Currency:       currency,
			VATIncluded:    vatIncluded,
			Metadata:       make(map[string]any, len(metadata)),
			CreatedDate:    now,
			LastUsedDate:   now,
			UseCount:       1,
		}
		for k, v := range metadata {
			tpl.Metadata[k] = v
		}
		s.templates[name] = tpl
		s.order = append(s.order, name)
		s.logger.Info("created template", zap.String("name", name))
	}

	return s.persist()
}

// Get retrieves a template by name.
//
// This is a stateful read: on success the template's use count and
// last-used timestamp are bumped and the store is persisted. The returned
// template is a copy; mutating it does not affect the store.
func (s *Store) Get(name string) (*Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[name]
	if !ok {
		return nil, false
	}
	tpl.LastUsedDate = s.now()
	tpl.UseCount++
	s.persist()
	return tpl.clone(), true
}

// List returns summaries of all templates, most used first.
func (s *Store) List() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]Summary, 0, len(s.templates))
	for _, name := range s.order {
		tpl := s.templates[name]
		summaries = append(summaries, Summary{
			Name:         tpl.Name,
			Currency:     tpl.Currency,
			VATIncluded:  tpl.VATIncluded,
			ColumnCount:  len(tpl.ColumnMappings),
			CreatedDate:  tpl.CreatedDate,
			LastUsedDate: tpl.LastUsedDate,
			UseCount:     tpl.UseCount,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UseCount > summaries[j].UseCount
	})
	return summaries
}

// Delete removes a template and persists. Returns whether it existed.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[name]; !ok {
		return false
	}
	delete(s.templates, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.persist()
	s.logger.Info("deleted template", zap.String("name", name))
	return true
}

// FindMatching scores every template against the incoming catalog and
// returns the best match, if it is confident enough.
//
// SCORING:
//   +0.3 when the template name and the filename contain each other
//        (case-insensitive, either direction)
//   +0.7 x (fraction of the template's own mapped columns present among
//        the given headers, case-insensitive)
//
// Ties keep the first template reaching the maximum in insertion order.
//
// RETURNS:
//   - The best template name and true when its score reaches 0.5;
//     "" and false otherwise.
func (s *Store) FindMatching(headers []string, filename string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.templates) == 0 {
		return "", false
	}

	headerSet := lowerSet(headers)
	filenameLower := strings.ToLower(filename)

	bestName := ""
	bestScore := 0.0
	for _, name := range s.order {
		tpl := s.templates[name]
		score := 0.0

		if filename != "" {
			nameLower := strings.ToLower(name)
			if strings.Contains(filenameLower, nameLower) || strings.Contains(nameLower, filenameLower) {
				score += filenameBonus
			}
		}

		if len(tpl.ColumnMappings) > 0 {
			present := 0
			for column := range tpl.ColumnMappings {
				if headerSet[strings.ToLower(column)] {
					present++
				}
			}
			score += overlapWeight * float64(present) / float64(len(tpl.ColumnMappings))
		}

		if score > bestScore {
			bestScore = score
			bestName = name
		}
	}

	if bestScore >= matchThreshold {
		s.logger.Info("found matching template",
			zap.String("name", bestName), zap.Float64("score", bestScore))
		return bestName, true
	}
	return "", false
}

// Suggest ranks templates by header-set similarity.
//
// Similarity is the count of given headers present among a template's
// mapped columns, divided by the larger of the two set sizes. Templates
// scoring 0.2 or less are dropped.
func (s *Store) Suggest(headers []string, topN int) []Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	headerSet := lowerSet(headers)

	var matches []Match
	for _, name := range s.order {
		tpl := s.templates[name]
		if len(tpl.ColumnMappings) == 0 {
			continue
		}
		columnSet := make(map[string]bool, len(tpl.ColumnMappings))
		for column := range tpl.ColumnMappings {
			columnSet[strings.ToLower(column)] = true
		}

		present := 0
		for h := range headerSet {
			if columnSet[h] {
				present++
			}
		}

		denom := len(headerSet)
		if len(columnSet) > denom {
			denom = len(columnSet)
		}
		similarity := float64(present) / float64(denom)
		if similarity > suggestThreshold {
			matches = append(matches, Match{Name: name, Score: similarity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// Export writes one template as a standalone JSON document.
func (s *Store) Export(name, destination string) bool {
	s.mu.Lock()
	tpl, ok := s.templates[name]
	s.mu.Unlock()
	if !ok {
		s.logger.Error("template not found", zap.String("name", name))
		return false
	}

	data, err := json.MarshalIndent(tpl, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode template", zap.String("name", name), zap.Error(err))
		return false
	}
	if err := os.WriteFile(destination, data, 0o644); err != nil {
		s.logger.Error("failed to export template",
			zap.String("name", name), zap.String("path", destination), zap.Error(err))
		return false
	}
	s.logger.Info("exported template", zap.String("name", name), zap.String("path", destination))
	return true
}

// Import reads a standalone template document and upserts it into the
// store, persisting. The template name comes from the payload.
//
// RETURNS:
//   - The imported template's name and true on success.
func (s *Store) Import(source string) (string, bool) {
	data, err := os.ReadFile(source)
	if err != nil {
		s.logger.Error("failed to read template file", zap.String("path", source), zap.Error(err))
		return "", false
	}

	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		s.logger.Error("failed to parse template file", zap.String("path", source), zap.Error(err))
		return "", false
	}
	tpl.Name = strings.TrimSpace(tpl.Name)
	if tpl.Name == "" {
		s.logger.Error("imported template has no name", zap.String("path", source))
		return "", false
	}
	if tpl.ColumnMappings == nil {
		tpl.ColumnMappings = make(map[string]string)
	}
	if tpl.Metadata == nil {
		tpl.Metadata = make(map[string]any)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[tpl.Name]; !exists {
		s.order = append(s.order, tpl.Name)
	}
	s.templates[tpl.Name] = &tpl
	if !s.persist() {
		return "", false
	}
	s.logger.Info("imported template", zap.String("name", tpl.Name))
	return tpl.Name, true
}

// Signature generates a stable fingerprint for a header set: the SHA-256
// of the sorted, lowercased, trimmed headers joined by "|", truncated to 16
// hex characters. Catalogs with reordered columns share a signature, which
// makes duplicate templates easy to spot.
func Signature(headers []string) string {
	sorted := make([]string, len(headers))
	for i, h := range headers {
		sorted[i] = strings.ToLower(strings.TrimSpace(h))
	}
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

// lowerSet builds a lowercased membership set.
func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

// copyMappings defensively copies a mapping set.
func copyMappings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
