package judge

import (
	"fmt"
	"strconv"
	"strings"

	"NewsDesk/internal/domain"
)

// Parse turns a raw model reply into a Verdict for the given task. The raw
// reply stays on the verdict even when parsing fails.
func Parse(task domain.JudgeTask, raw string) (domain.Verdict, error) {
	if task == domain.TaskRelevance {
		return parseRelevance(raw)
	}
	return parsePrint(raw)
}

// parsePrint accepts either a bare probability or a 지면가능성: line.
func parsePrint(raw string) (domain.Verdict, error) {
	verdict := domain.Verdict{Task: domain.TaskPrint, Raw: raw}

	if score, err := parseScore(raw); err == nil {
		verdict.PrintScore = &score
		return verdict, nil
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "지면가능성:") {
			continue
		}
		score, err := parseScore(strings.TrimPrefix(line, "지면가능성:"))
		if err != nil {
			continue
		}
		verdict.PrintScore = &score
		return verdict, nil
	}

	return verdict, &domain.ParseError{
		Service: "print judge",
		Raw:     raw,
		Err:     fmt.Errorf("no probability in reply"),
	}
}

// parseRelevance reads the 실용성/객관성/분류/이유 line protocol. Lines that
// fail to parse are skipped; a reply without any score is an error.
func parseRelevance(raw string) (domain.Verdict, error) {
	verdict := domain.Verdict{Task: domain.TaskRelevance, Raw: raw}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "실용성:"):
			if score, err := parseScore(strings.TrimPrefix(line, "실용성:")); err == nil {
				verdict.Practicality = &score
			}
		case strings.HasPrefix(line, "객관성:"):
			if score, err := parseScore(strings.TrimPrefix(line, "객관성:")); err == nil {
				verdict.Objectivity = &score
			}
		case strings.HasPrefix(line, "분류:"):
			verdict.Tags = parseTags(strings.TrimPrefix(line, "분류:"))
		case strings.HasPrefix(line, "이유:"):
			verdict.Reason = strings.TrimSpace(strings.TrimPrefix(line, "이유:"))
		}
	}

	if verdict.Practicality == nil && verdict.Objectivity == nil {
		return verdict, &domain.ParseError{
			Service: "relevance judge",
			Raw:     raw,
			Err:     fmt.Errorf("no scores in reply"),
		}
	}
	return verdict, nil
}

// parseScore reads a probability in [0,1], tolerating the [0.0~1.0] bracket
// style some models echo back.
func parseScore(text string) (float64, error) {
	text = strings.Trim(strings.TrimSpace(text), "[]")
	score, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("score %v out of range", score)
	}
	return score, nil
}

func parseTags(text string) []string {
	var tags []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '/'
	}) {
		part = strings.Trim(strings.TrimSpace(part), "[]")
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
