package judge

import (
	"errors"
	"testing"

	"NewsDesk/internal/domain"
)

func TestParsePrintBareFloat(t *testing.T) {
	t.Parallel()

	v, err := Parse(domain.TaskPrint, " 0.85 \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.PrintScore == nil || *v.PrintScore != 0.85 {
		t.Fatalf("expected print score 0.85, got %+v", v.PrintScore)
	}
}

func TestParsePrintLineProtocol(t *testing.T) {
	t.Parallel()

	v, err := Parse(domain.TaskPrint, "지면가능성: 0.8\n이유: 경제면 후보")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.PrintScore == nil || *v.PrintScore != 0.8 {
		t.Fatalf("expected print score 0.8, got %+v", v.PrintScore)
	}
}

func TestParsePrintOutOfRange(t *testing.T) {
	t.Parallel()

	v, err := Parse(domain.TaskPrint, "1.5")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if v.Raw != "1.5" {
		t.Fatalf("raw reply must be retained, got %q", v.Raw)
	}
}

func TestParsePrintProse(t *testing.T) {
	t.Parallel()

	raw := "이 기사는 지면에 실릴 것으로 보입니다"
	v, err := Parse(domain.TaskPrint, raw)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if v.Raw != raw {
		t.Fatalf("raw reply must be retained, got %q", v.Raw)
	}
}

func TestParseRelevanceFull(t *testing.T) {
	t.Parallel()

	raw := "실용성: 0.8\n객관성: 0.6\n분류: 실무\n이유: 세무 실무에 직접 참고할 내용"
	v, err := Parse(domain.TaskRelevance, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Practicality == nil || *v.Practicality != 0.8 {
		t.Fatalf("expected practicality 0.8, got %+v", v.Practicality)
	}
	if v.Objectivity == nil || *v.Objectivity != 0.6 {
		t.Fatalf("expected objectivity 0.6, got %+v", v.Objectivity)
	}
	if len(v.Tags) != 1 || v.Tags[0] != "실무" {
		t.Fatalf("expected tag 실무, got %v", v.Tags)
	}
	if v.Reason != "세무 실무에 직접 참고할 내용" {
		t.Fatalf("unexpected reason %q", v.Reason)
	}
}

func TestParseRelevanceBracketsAndTags(t *testing.T) {
	t.Parallel()

	raw := "실용성: [0.9]\n객관성: [0.7]\n분류: 홍보성, 사회이슈\n이유: 보도자료 기반"
	v, err := Parse(domain.TaskRelevance, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Practicality == nil || *v.Practicality != 0.9 {
		t.Fatalf("expected practicality 0.9, got %+v", v.Practicality)
	}
	if len(v.Tags) != 2 || v.Tags[0] != "홍보성" || v.Tags[1] != "사회이슈" {
		t.Fatalf("expected two tags, got %v", v.Tags)
	}
}

func TestParseRelevanceSkipsBadScoreLine(t *testing.T) {
	t.Parallel()

	v, err := Parse(domain.TaskRelevance, "실용성: 높음\n객관성: 0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Practicality != nil {
		t.Fatalf("unparseable line must be skipped, got %v", *v.Practicality)
	}
	if v.Objectivity == nil || *v.Objectivity != 0.5 {
		t.Fatalf("expected objectivity 0.5, got %+v", v.Objectivity)
	}
}

func TestParseRelevanceNoScores(t *testing.T) {
	t.Parallel()

	raw := "이유: 판단 불가"
	v, err := Parse(domain.TaskRelevance, raw)
	if err == nil {
		t.Fatal("expected parse error")
	}
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if parseErr.Raw != raw || v.Raw != raw {
		t.Fatal("raw reply must be retained on error and verdict")
	}
}
