package search

import "sort"

// Candidate is a scored article id coming out of one retrieval source.
type Candidate struct {
	articleID int64
	score     float64
}

// NewCandidate creates a Candidate.
func NewCandidate(articleID int64, score float64) Candidate {
	return Candidate{articleID: articleID, score: score}
}

// ArticleID returns the article id.
func (c Candidate) ArticleID() int64 { return c.articleID }

// Score returns the source score.
func (c Candidate) Score() float64 { return c.score }

// Fused is the outcome of score fusion for one article.
type Fused struct {
	articleID     int64
	score         float64
	keywordScore  float64
	semanticScore float64
	matchType     MatchType
}

// ArticleID returns the article id.
func (f Fused) ArticleID() int64 { return f.articleID }

// Score returns the fused score.
func (f Fused) Score() float64 { return f.score }

// KeywordScore returns the normalized lexical sub-score, 0 when the article
// was not a keyword candidate.
func (f Fused) KeywordScore() float64 { return f.keywordScore }

// SemanticScore returns the vector similarity sub-score, 0 when the article
// was not a semantic candidate.
func (f Fused) SemanticScore() float64 { return f.semanticScore }

// MatchType returns which source(s) contributed.
func (f Fused) MatchType() MatchType { return f.matchType }

// Fusion combines lexical and semantic candidate lists into one ranking
// using a weighted sum:
//
//	score = keywordWeight*normalizedKeyword + semanticWeight*semantic
//
// Keyword scores are min-max normalized into [0,1] per query because FTS rank
// values are unbounded; semantic similarities over normalized embeddings are
// already in [0,1] and are used as-is. An article present in only one source
// keeps that source's weighted score with the missing side contributing 0.
// The weights need not sum to 1, so the fused score may exceed 1.
type Fusion struct {
	keywordWeight  float64
	semanticWeight float64
}

// NewFusion creates a Fusion with the given weights. Non-positive weights
// fall back to the conventional 0.6/0.4 split.
func NewFusion(keywordWeight, semanticWeight float64) Fusion {
	if keywordWeight <= 0 && semanticWeight <= 0 {
		keywordWeight, semanticWeight = 0.6, 0.4
	}
	return Fusion{keywordWeight: keywordWeight, semanticWeight: semanticWeight}
}

// KeywordWeight returns the lexical weight.
func (f Fusion) KeywordWeight() float64 { return f.keywordWeight }

// SemanticWeight returns the semantic weight.
func (f Fusion) SemanticWeight() float64 { return f.semanticWeight }

// Fuse merges the two candidate lists into a ranking sorted by fused score
// descending. Ties break by ascending article id, which keeps the ordering
// deterministic for a fixed query.
func (f Fusion) Fuse(keyword, semantic []Candidate) []Fused {
	byID := make(map[int64]*Fused, len(keyword)+len(semantic))

	for _, c := range normalizeMinMax(keyword) {
		byID[c.articleID] = &Fused{
			articleID:    c.articleID,
			keywordScore: c.score,
			score:        f.keywordWeight * c.score,
			matchType:    MatchKeyword,
		}
	}

	for _, c := range semantic {
		sim := clampUnit(c.score)
		if existing, ok := byID[c.articleID]; ok {
			existing.semanticScore = sim
			existing.score += f.semanticWeight * sim
			existing.matchType = MatchMixed
			continue
		}
		byID[c.articleID] = &Fused{
			articleID:     c.articleID,
			semanticScore: sim,
			score:         f.semanticWeight * sim,
			matchType:     MatchSemantic,
		}
	}

	fused := make([]Fused, 0, len(byID))
	for _, v := range byID {
		fused = append(fused, *v)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].articleID < fused[j].articleID
	})

	return fused
}

// normalizeMinMax rescales candidate scores into [0,1] per query. When all
// scores are equal every candidate gets 1.0: a uniform list carries rank
// information only, and the source still deserves its full weight.
func normalizeMinMax(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}

	minScore, maxScore := candidates[0].score, candidates[0].score
	for _, c := range candidates[1:] {
		if c.score < minScore {
			minScore = c.score
		}
		if c.score > maxScore {
			maxScore = c.score
		}
	}

	out := make([]Candidate, len(candidates))
	spread := maxScore - minScore
	for i, c := range candidates {
		if spread == 0 {
			out[i] = Candidate{articleID: c.articleID, score: 1.0}
			continue
		}
		out[i] = Candidate{articleID: c.articleID, score: (c.score - minScore) / spread}
	}
	return out
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
