package judge

import (
	"fmt"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/filter"
)

// Temperature keeps judge replies near-deterministic across runs.
const Temperature = 0.1

const (
	printSystem     = "당신은 뉴스 기사의 지면 게재 가능성을 판단하는 전문가입니다."
	relevanceSystem = "당신은 회계법인 구성원에게 유용한 경제 뉴스를 선별하는 전문가입니다."
)

// SystemPrompt returns the system message for a judge task.
func SystemPrompt(task domain.JudgeTask) string {
	if task == domain.TaskRelevance {
		return relevanceSystem
	}
	return printSystem
}

// Prompt renders the user message for a judge task.
func Prompt(task domain.JudgeTask, article domain.Article) string {
	if task == domain.TaskRelevance {
		return relevancePrompt(article)
	}
	return printPrompt(article)
}

func printPrompt(a domain.Article) string {
	return fmt.Sprintf(`다음 뉴스가 지면(인쇄판) 기사일 가능성을 0.0~1.0 사이의 숫자로 평가해주세요.

뉴스 정보:
- 제목: %s
- 요약: %s
- 도메인: %s
- 언론사: %s

지면 기사의 특징:
- 신문 지면에 실리는 기사
- 온라인 전용이 아닌 인쇄물 기사
- 온라인과 지면에 동시 게재되는 기사도 포함

평가 기준:
- 0.0: 온라인 전용 기사일 가능성 높음
- 0.5: 지면과 온라인 동시 게재 가능성
- 1.0: 지면 전용 기사일 가능성 높음

답변은 반드시 0.0~1.0 사이의 숫자만 출력하세요.`, a.Title, a.Summary, filter.ExtractDomain(a.Link), a.Source)
}

func relevancePrompt(a domain.Article) string {
	return fmt.Sprintf(`다음 뉴스가 회계법인 구성원에게 실질적으로 유용한지 판단해주세요.

뉴스 정보:
- 제목: %s
- 요약: %s
- 도메인: %s
- 언론사: %s

판단 기준:

1. 실용성 (0.0~1.0):
- 포함할 기사: 기업 경영 전략, 재무관리, 세무, 위기관리 등 실질적 도움 제공
- 제외할 기사: 개인 관련, 홍보성, 사회적 이슈, 단순 사건사고 등

2. 객관성 (0.0~1.0):
- 사실 전달 중심의 보도인지, 과장이나 홍보가 섞였는지 평가

판단 결과를 다음 형식으로 출력하세요:
실용성: [0.0~1.0]
객관성: [0.0~1.0]
분류: [실무/개인적/홍보성/사회이슈/사건사고]
이유: [판단 이유 간단 설명]`, a.Title, a.Summary, filter.ExtractDomain(a.Link), a.Source)
}
