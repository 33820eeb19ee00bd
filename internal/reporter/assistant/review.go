package assistant

import (
	"context"
	"strings"

	"token-report/internal/reporter/model"

	"github.com/bytedance/sonic"
)

const reviewTemplate = `
{{tokenInfo}}

You will explain how you feel about the token. The rugcheck score the lowest the better, the higher the score the higher the risk if there are some problems do a summary explaining the problems.
You will not do any markdown, you will not repeat any information, just provide a summary of the token. In a short paragraph of maximum 3 lines, explain the token.
A rugcheck score of 500 should not be considered a red flag you must not say the token in unsafe.
Dont only analyse the rugcheck part also the other parts of the token.
`

// Sender 发送一条会话消息
type Sender interface {
	SendMessage(ctx context.Context, sessionID, query string) (Message, error)
}

// Reviewer 用结构化报告生成一段简短点评
type Reviewer struct {
	sender Sender
}

func NewReviewer(sender Sender) *Reviewer {
	return &Reviewer{sender: sender}
}

// ReviewPrompt 把缩进后的报告对象填入模板
func ReviewPrompt(obj model.ReportObject) (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", err
	}
	return strings.Replace(reviewTemplate, "{{tokenInfo}}", string(data), 1), nil
}

func (r *Reviewer) Review(ctx context.Context, sessionID string, obj model.ReportObject) (Message, error) {
	prompt, err := ReviewPrompt(obj)
	if err != nil {
		return Message{}, err
	}
	return r.sender.SendMessage(ctx, sessionID, prompt)
}
