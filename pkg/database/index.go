package database

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
)

// SearchResult is a package with its relevance score.
type SearchResult struct {
	outline.Package
	Score       float64 // TF-IDF relevance score
	MatchReason string  // Why this package matched
}

// Index provides TF-IDF search over projected packages.
type Index struct {
	mu sync.RWMutex

	lang string

	documents []document
	docByKey  map[repo.PackageKey]int

	// term -> document positions
	invertedIndex map[string][]int
	idfCache      map[string]float64

	boostExactMatch  float64
	boostPrefixMatch float64
	boostInstalled   float64
}

type document struct {
	Package outline.Package
	Name    string
	Terms   map[string]int // term -> frequency
	Length  int
}

// NewIndex creates a search index. Names and descriptions are indexed in the given language.
func NewIndex(lang string) *Index {
	return &Index{
		lang:             lang,
		docByKey:         make(map[repo.PackageKey]int),
		invertedIndex:    make(map[string][]int),
		idfCache:         make(map[string]float64),
		boostExactMatch:  10.0,
		boostPrefixMatch: 5.0,
		boostInstalled:   1.5,
	}
}

// IndexCatalog builds an index over every package of a catalog.
func IndexCatalog(c *outline.Catalog, lang string) *Index {
	idx := NewIndex(lang)
	var pkgs []outline.Package
	for _, o := range c.Outlines() {
		for _, key := range o.Keys() {
			if p, ok := c.Package(key); ok {
				pkgs = append(pkgs, p)
			}
		}
	}
	idx.AddBatch(pkgs)
	return idx
}

// AddBatch adds packages to the index and refreshes term weights.
func (idx *Index) AddBatch(pkgs []outline.Package) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, p := range pkgs {
		idx.addUnlocked(p)
	}
	idx.rebuildIDFCache()
}

func (idx *Index) addUnlocked(p outline.Package) {
	if existing, ok := idx.docByKey[p.Key]; ok {
		idx.removeFromInvertedIndex(existing)
		idx.documents[existing] = idx.createDocument(p)
		idx.addToInvertedIndex(existing, idx.documents[existing].Terms)
		return
	}

	doc := idx.createDocument(p)
	pos := len(idx.documents)
	idx.documents = append(idx.documents, doc)
	idx.docByKey[p.Key] = pos
	idx.addToInvertedIndex(pos, doc.Terms)
}

func (idx *Index) createDocument(p outline.Package) document {
	name := p.Descriptor.NativeName(idx.lang)
	text := name + " " + p.Descriptor.ID + " " + p.Descriptor.NativeDescription(idx.lang)
	for _, tag := range p.Descriptor.Tags {
		if _, v, ok := strings.Cut(tag, ":"); ok {
			text += " " + v
		}
	}

	terms := make(map[string]int)
	tokens := tokenize(text)
	for _, token := range tokens {
		if len([]rune(token)) >= 2 {
			terms[token]++
		}
	}

	return document{
		Package: p,
		Name:    strings.ToLower(name),
		Terms:   terms,
		Length:  len(tokens),
	}
}

func (idx *Index) addToInvertedIndex(pos int, terms map[string]int) {
	for term := range terms {
		idx.invertedIndex[term] = append(idx.invertedIndex[term], pos)
	}
}

func (idx *Index) removeFromInvertedIndex(pos int) {
	for term := range idx.documents[pos].Terms {
		postings := idx.invertedIndex[term]
		for i, d := range postings {
			if d == pos {
				idx.invertedIndex[term] = append(postings[:i], postings[i+1:]...)
				break
			}
		}
	}
}

func (idx *Index) rebuildIDFCache() {
	idx.idfCache = make(map[string]float64)
	n := float64(len(idx.documents))

	for term, postings := range idx.invertedIndex {
		if len(postings) == 0 {
			continue
		}
		// smoothed so terms present in every document still count
		idx.idfCache[term] = math.Log(1 + n/float64(len(postings)))
	}
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	Limit          int    // Maximum results (0 = unlimited)
	RepositoryURL  string // Only return packages from this repository
	InstalledOnly  bool   // Only return installed packages
	BoostInstalled bool   // Rank installed packages higher
}

// DefaultSearchOptions returns the options used by the CLI.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:          50,
		BoostInstalled: true,
	}
}

// Search returns packages ranked by relevance to the query.
func (idx *Index) Search(query string, opts SearchOptions) []SearchResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.documents) == 0 {
		return nil
	}

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return nil
	}

	queryVec := make(map[string]float64)
	for _, term := range queryTerms {
		queryVec[term]++
	}
	for term := range queryVec {
		if idf, ok := idx.idfCache[term]; ok {
			queryVec[term] *= idf
		}
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	candidates := idx.findCandidates(queryTerms)
	results := make([]SearchResult, 0, len(candidates))

	for pos := range candidates {
		doc := idx.documents[pos]
		if !idx.matches(doc, opts) {
			continue
		}
		score := idx.scoreDocument(doc, queryVec, queryLower, opts)
		if score > 0 {
			results = append(results, SearchResult{
				Package:     doc.Package,
				Score:       score,
				MatchReason: matchReason(doc, queryLower),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Key.String() < results[j].Key.String()
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results
}

func (idx *Index) findCandidates(queryTerms []string) map[int]bool {
	candidates := make(map[int]bool)

	for _, term := range queryTerms {
		// prefix matching also covers exact terms
		for indexed, postings := range idx.invertedIndex {
			if strings.HasPrefix(indexed, term) {
				for _, pos := range postings {
					candidates[pos] = true
				}
			}
		}
	}

	return candidates
}

func (idx *Index) matches(doc document, opts SearchOptions) bool {
	if opts.RepositoryURL != "" && doc.Package.Key.RepositoryURL != opts.RepositoryURL {
		return false
	}
	if opts.InstalledOnly && !installed(doc.Package) {
		return false
	}
	return true
}

func (idx *Index) scoreDocument(doc document, queryVec map[string]float64, queryLower string, opts SearchOptions) float64 {
	var dotProduct, docNorm float64

	for term, tf := range doc.Terms {
		idf := idx.idfCache[term]
		weight := float64(tf) * idf
		docNorm += weight * weight

		for qTerm, qWeight := range queryVec {
			if strings.HasPrefix(term, qTerm) {
				dotProduct += qWeight * weight
				break
			}
		}
	}

	if docNorm == 0 {
		return 0
	}

	score := dotProduct / math.Sqrt(docNorm)

	switch {
	case doc.Name == queryLower || doc.Package.Descriptor.ID == queryLower:
		score *= idx.boostExactMatch
	case strings.HasPrefix(doc.Name, queryLower):
		score *= idx.boostPrefixMatch
	case strings.Contains(doc.Name, queryLower):
		score *= 2.0
	}

	if opts.BoostInstalled && installed(doc.Package) {
		score *= idx.boostInstalled
	}

	return score
}

func matchReason(doc document, queryLower string) string {
	switch {
	case doc.Name == queryLower || doc.Package.Descriptor.ID == queryLower:
		return "Exact name match"
	case strings.HasPrefix(doc.Name, queryLower):
		return "Name starts with query"
	case strings.Contains(doc.Name, queryLower):
		return "Name contains query"
	}
	return "Keyword match"
}

// Size returns the number of indexed packages.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docByKey)
}

func installed(p outline.Package) bool {
	return p.Status.Status == repo.StatusUpToDate || p.Status.Status == repo.StatusRequiresUpdate
}

// tokenize splits text into lower-case searchable tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
