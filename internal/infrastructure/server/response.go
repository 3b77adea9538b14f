package server

import (
	"time"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/usecase"
)

// Response DTOs keep the wire contract independent of the domain structs.

type resultResponse struct {
	Window   windowResponse    `json:"window"`
	Articles []articleResponse `json:"articles"`
	Report   reportResponse    `json:"report"`
}

type windowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type articleResponse struct {
	Title             string            `json:"title"`
	Link              string            `json:"link"`
	Source            string            `json:"source"`
	PublishedAt       time.Time         `json:"publishedAt"`
	Summary           string            `json:"summary,omitempty"`
	MatchedKeywords   []string          `json:"matchedKeywords,omitempty"`
	PrintScore        *float64          `json:"printScore,omitempty"`
	PracticalityScore *float64          `json:"practicalityScore,omitempty"`
	ObjectivityScore  *float64          `json:"objectivityScore,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	JudgeNote         string            `json:"judgeNote,omitempty"`
	Failures          []failureResponse `json:"failures,omitempty"`
	CompositeScore    float64           `json:"compositeScore"`
	GroupID           int               `json:"groupId"`
	Selected          bool              `json:"selected"`
}

type failureResponse struct {
	Task  string `json:"task"`
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}

type reportResponse struct {
	Total      int                 `json:"total"`
	Selected   int                 `json:"selected"`
	Rejections []rejectionResponse `json:"rejections,omitempty"`
	ByStage    map[string]int      `json:"byStage,omitempty"`
	ByReason   map[string]int      `json:"byReason,omitempty"`
}

type rejectionResponse struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

func toResultResponse(result usecase.Result) resultResponse {
	articles := make([]articleResponse, 0, len(result.Articles))
	for _, review := range result.Articles {
		articles = append(articles, toArticleResponse(review))
	}

	return resultResponse{
		Window: windowResponse{
			Start: result.Window.Start,
			End:   result.Window.End,
		},
		Articles: articles,
		Report:   toReportResponse(result.Report),
	}
}

func toArticleResponse(review domain.Review) articleResponse {
	failures := make([]failureResponse, 0, len(review.Failures))
	for _, failure := range review.Failures {
		failures = append(failures, failureResponse{
			Task:  string(failure.Task),
			Error: failure.Err,
			Raw:   failure.Raw,
		})
	}

	return articleResponse{
		Title:             review.Article.Title,
		Link:              review.Article.Link,
		Source:            review.Article.Source,
		PublishedAt:       review.Article.PublishedAt,
		Summary:           review.Article.Summary,
		MatchedKeywords:   review.Article.MatchedKeywords,
		PrintScore:        review.PrintScore,
		PracticalityScore: review.PracticalityScore,
		ObjectivityScore:  review.ObjectivityScore,
		Tags:              review.Tags,
		JudgeNote:         review.JudgeNote,
		Failures:          failures,
		CompositeScore:    review.CompositeScore,
		GroupID:           review.GroupID,
		Selected:          review.Selected,
	}
}

func toReportResponse(report domain.Report) reportResponse {
	rejections := make([]rejectionResponse, 0, len(report.Rejections))
	for _, rej := range report.Rejections {
		rejections = append(rejections, rejectionResponse{
			Title:  rej.Article.Title,
			Link:   rej.Article.Link,
			Source: rej.Article.Source,
			Stage:  string(rej.Stage),
			Reason: string(rej.Reason),
			Detail: rej.Detail,
		})
	}

	byStage := make(map[string]int, len(report.ByStage()))
	for stage, count := range report.ByStage() {
		byStage[string(stage)] = count
	}
	byReason := make(map[string]int, len(report.ByReason()))
	for reason, count := range report.ByReason() {
		byReason[string(reason)] = count
	}

	return reportResponse{
		Total:      report.Total,
		Selected:   report.Selected,
		Rejections: rejections,
		ByStage:    byStage,
		ByReason:   byReason,
	}
}
