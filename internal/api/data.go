package api

// RawResult is the engine output as returned by the recognition service.
// Timestamp entries are [startMs, endMs] pairs aligned 1:1 with Words.
type RawResult struct {
	Text       string   `json:"text"`
	Timestamp  [][]int  `json:"timestamp,omitempty"`
	Words      []string `json:"words,omitempty"`
	Language   string   `json:"language,omitempty"`
	Duration   float64  `json:"duration,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// WordTiming holds per-word timing inside a segment, in seconds.
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a punctuation-bounded span of transcript text with timing.
// Start/End are seconds. HasTiming stays false until the first real word
// sets the start time.
type Segment struct {
	Text      string       `json:"text"`
	Start     float64      `json:"start"`
	End       float64      `json:"end"`
	HasTiming bool         `json:"-"`
	Words     []WordTiming `json:"words,omitempty"`
}

// FormattedSegment is a renumbered, flattened projection of Segment used
// for subtitle rendering. Index is 1-based.
type FormattedSegment struct {
	Index      int     `json:"index"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TranscriptionResult is the pipeline's unit of exchange. Constructed once
// per transcription call, read-only downstream.
type TranscriptionResult struct {
	Success           bool               `json:"success"`
	Text              string             `json:"text"`
	Segments          []Segment          `json:"segments"`
	FormattedSegments []FormattedSegment `json:"formatted_segments,omitempty"`
	Language          string             `json:"language,omitempty"`
	Duration          float64            `json:"duration,omitempty"`
	Confidence        float64            `json:"confidence,omitempty"`
	Error             string             `json:"error,omitempty"`
}

const (
	JobQueued  = "QUEUED"
	JobRunning = "RUNNING"
	JobDone    = "DONE"
	JobFailed  = "FAILED"
)

// Job tracks one transcription request through the service.
type Job struct {
	ID       string               `json:"id"`
	Status   string               `json:"status"`
	Input    string               `json:"input,omitempty"`
	URL      string               `json:"url,omitempty"`
	Language string               `json:"language,omitempty"`
	Created  int64                `json:"created"`
	Error    string               `json:"error,omitempty"`
	Result   *TranscriptionResult `json:"result,omitempty"`
}

const (
	EventQueued   = "JOB_QUEUED"
	EventStarted  = "JOB_STARTED"
	EventFinished = "JOB_FINISHED"
	EventFailed   = "JOB_FAILED"
)

// JobEvent is pushed to websocket subscribers on job state changes.
type JobEvent struct {
	Event string `json:"event"`
	JobID string `json:"job_id"`
	Error string `json:"error,omitempty"`
}

// VideoInfo is metadata resolved for a remote URL.
type VideoInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	UploadDate  string  `json:"upload_date,omitempty"`
	ViewCount   int64   `json:"view_count,omitempty"`
	Description string  `json:"description,omitempty"`
	Ext         string  `json:"ext,omitempty"`
	WebpageURL  string  `json:"webpage_url,omitempty"`
}
