package handler

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type CategoryRequest struct {
	Title       string   `json:"title" binding:"required" msg:"Title is required"`
	Keywords    []string `json:"keywords" binding:"required,min=1" msg:"Keywords are required"`
	Description string   `json:"description"`
}

type CategoryResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
	// ArticleCount is only set on the single-category view.
	ArticleCount *int64 `json:"articleCount,omitempty"`
}

type CreatedResponse struct {
	InsertedID string `json:"insertedId"`
}

// sourceInput is the raw create payload before the custom schedule is resolved.
type sourceInput struct {
	CategoryID         string `json:"categoryId"`
	Title              string `json:"title"`
	URL                string `json:"url"`
	CronSchedule       string `json:"cronSchedule"`
	CronScheduleType   string `json:"cronScheduleType"`
	CustomCronSchedule string `json:"customCronSchedule"`
	IsActive           bool   `json:"isActive"`
}

type CreateSourceRequest struct {
	CategoryID   string `json:"categoryId" binding:"required" msg:"Category is required"`
	Title        string `json:"title" binding:"required" msg:"Title is required"`
	URL          string `json:"url" binding:"required,url" msg:"Invalid URL format"`
	CronSchedule string `json:"cronSchedule" binding:"cron" msg:"Invalid cron expression"`
	IsActive     bool   `json:"isActive"`
}

type UpdateSourceRequest struct {
	Title        *string `json:"title" binding:"omitempty,min=1" msg:"Title is required"`
	URL          *string `json:"url" binding:"omitempty,url" msg:"Invalid URL format"`
	CronSchedule *string `json:"cronSchedule" binding:"omitempty,cron" msg:"Invalid cron expression"`
	IsActive     *bool   `json:"isActive"`
}

type SourceResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	CategoryID   string  `json:"categoryId"`
	CronSchedule string  `json:"cronSchedule"`
	IsActive     bool    `json:"isActive"`
	Status       string  `json:"status"`
	LastRunAt    *string `json:"lastRunAt"`
	NextRunAt    *string `json:"nextRunAt"`
	LastError    *string `json:"lastError"`
	CurrentRetry int     `json:"currentRetry"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type ExecutionResponse struct {
	ID          string         `json:"id"`
	StartedAt   string         `json:"startedAt"`
	CompletedAt *string        `json:"completedAt,omitempty"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	Duration    int64          `json:"duration"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type CronValidateRequest struct {
	Expression string `json:"expression"`
}

type CronValidateResponse struct {
	Valid    bool     `json:"valid"`
	NextRuns []string `json:"nextRuns"`
}

type KeywordResponse struct {
	Keyword   string  `json:"keyword"`
	Location  string  `json:"location"`
	CaseCount int     `json:"caseCount"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ArticleResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Content        string            `json:"content"`
	Summary        string            `json:"summary,omitempty"`
	SourceID       string            `json:"sourceId"`
	CategoryID     string            `json:"categoryId"`
	URL            string            `json:"url"`
	PublishedDate  *string           `json:"publishedDate"`
	Keywords       []KeywordResponse `json:"keywords"`
	IsArticleValid bool              `json:"isArticleValid"`
	CreatedAt      string            `json:"createdAt"`
	UpdatedAt      string            `json:"updatedAt"`
}

type KeywordDetailsResponse struct {
	ID        int     `json:"id"`
	Keyword   string  `json:"keyword"`
	CaseCount int     `json:"caseCount"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ArticleID string  `json:"articleId"`
	SourceID  string  `json:"sourceId"`
	Date      string  `json:"date"`
}

type CaseRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type KeywordsResponse struct {
	Keywords  []KeywordDetailsResponse `json:"keywords"`
	Total     int                      `json:"total"`
	Count     int                      `json:"count"`
	CaseRange CaseRange                `json:"caseRange"`
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MapResponse struct {
	Center     LatLng `json:"center"`
	TotalCases int    `json:"totalCases"`
	GeoJSON    any    `json:"geojson"`
}

// categoryInput is the raw category payload before trimming.
type categoryInput struct {
	Title       string   `json:"title"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}
