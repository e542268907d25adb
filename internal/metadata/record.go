package metadata

// AcceptThreshold is the fixed confidence cutoff. Results strictly below it
// are rejected; exactly at the threshold is accepted.
const AcceptThreshold = 0.60

// defaultConfidence applies when the assistant omitted the confidence field.
// 0.5 sits below the acceptance threshold, so an uncertain legacy response is
// always rejected rather than silently trusted.
const defaultConfidence = 0.5

// SeriesRef names one series membership with its free-form sequence ("1",
// "2.5").
type SeriesRef struct {
	Series   string `json:"series"`
	Sequence string `json:"sequence"`
}

// Record is the normalized enrichment result as returned by the assistant,
// confidence fields included. Confidence never reaches the persisted
// artifact.
type Record struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Narrators     []string    `json:"narrators"`
	Description   string      `json:"description"`
	Publisher     string      `json:"publisher"`
	PublishedYear string      `json:"publishedYear"`
	Series        []SeriesRef `json:"series"`
	Genres        []string    `json:"genres"`
	Language      string      `json:"language"`

	Confidence       *float64 `json:"confidence,omitempty"`
	ConfidenceReason string   `json:"confidence_reason,omitempty"`
}

// EffectiveConfidence returns the reported confidence, clamped to [0, 1],
// falling back to the uncertain default when the field was absent.
func (r Record) EffectiveConfidence() float64 {
	if r.Confidence == nil {
		return defaultConfidence
	}
	value := *r.Confidence
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// Accepted reports whether the record clears the confidence threshold.
func (r Record) Accepted() bool {
	return r.EffectiveConfidence() >= AcceptThreshold
}

// Artifact is the on-disk metadata record, one per book directory. It is the
// Record minus the transient confidence fields.
type Artifact struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Narrators     []string    `json:"narrators"`
	Description   string      `json:"description"`
	Publisher     string      `json:"publisher"`
	PublishedYear string      `json:"publishedYear"`
	Series        []SeriesRef `json:"series"`
	Genres        []string    `json:"genres"`
	Language      string      `json:"language"`
}

// Artifact strips the confidence fields from the record.
func (r Record) Artifact() Artifact {
	return Artifact{
		Title:         r.Title,
		Authors:       r.Authors,
		Narrators:     r.Narrators,
		Description:   r.Description,
		Publisher:     r.Publisher,
		PublishedYear: r.PublishedYear,
		Series:        r.Series,
		Genres:        r.Genres,
		Language:      r.Language,
	}
}

// PrimaryAuthor returns the first author, or empty. Author order is
// significant.
func (a Artifact) PrimaryAuthor() string {
	if len(a.Authors) == 0 {
		return ""
	}
	return a.Authors[0]
}
