package command

import (
	"regexp"
	"strings"

	"github.com/minhqv/nhombot/internal/infohub"
	"github.com/minhqv/nhombot/internal/ledger"
)

// Action classifies a response so the caller can pick a presentation.
type Action string

const (
	ActionPayment  Action = "payment"
	ActionInfo     Action = "information"
	ActionError    Action = "error"
	ActionFallback Action = "fallback"
)

// Response is the uniform result of every command.
type Response struct {
	Message string `json:"message"`
	Objects []any  `json:"objects"`
	Action  Action `json:"action_type"`
}

func errorResponse(msg string) Response {
	return Response{Message: msg, Objects: []any{}, Action: ActionError}
}

// handler binds one command pattern to its implementation. Named capture
// groups in the pattern become the params map passed to run.
type handler struct {
	prefix  string
	pattern *regexp.Regexp
	run     func(p *Processor, params map[string]string, groupID string) Response
}

// Processor matches chat input against the registered commands and runs
// the first handler whose pattern matches. Engines are looked up per
// group through the injected registries.
type Processor struct {
	ledgers  *ledger.Registry
	hubs     *infohub.Registry
	handlers []handler
}

func NewProcessor(ledgers *ledger.Registry, hubs *infohub.Registry) *Processor {
	return &Processor{
		ledgers:  ledgers,
		hubs:     hubs,
		handlers: defaultHandlers(),
	}
}

func defaultHandlers() []handler {
	return []handler{
		{prefix: "/tiền", pattern: moneyPattern, run: handleMoney},
		{prefix: "/trạng-thái-tiền", pattern: moneyStatusPattern, run: handleMoneyStatus},
		{prefix: "/xóa-thành-viên", pattern: removeMemberPattern, run: handleRemoveMember},
		{prefix: "/buộc-xóa-thành-viên", pattern: forceRemovePattern, run: handleForceRemoveMember},
		{prefix: "/thêm-thông-tin", pattern: infoAddPattern, run: handleInfoAdd},
		{prefix: "/tìm-thông-tin", pattern: infoFindPattern, run: handleInfoFind},
		{prefix: "/xem-thông-tin", pattern: infoGetPattern, run: handleInfoGet},
		{prefix: "/sửa-thông-tin", pattern: infoUpdatePattern, run: handleInfoUpdate},
		{prefix: "/xóa-thông-tin", pattern: infoDeletePattern, run: handleInfoDelete},
		{prefix: "/thống-kê", pattern: infoStatsPattern, run: handleInfoStats},
	}
}

// Process routes one line of chat input for the given group.
func (p *Processor) Process(input, groupID string) Response {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return Response{
			Message: "Xin lỗi, tôi chỉ xử lý các lệnh bắt đầu bằng '/'.",
			Objects: []any{map[string]string{"original_message": input}},
			Action:  ActionFallback,
		}
	}

	for _, h := range p.handlers {
		m := h.pattern.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		params := make(map[string]string)
		for i, name := range h.pattern.SubexpNames() {
			if name != "" && i < len(m) {
				params[name] = m[i]
			}
		}
		return h.run(p, params, groupID)
	}

	cmd := strings.Fields(input)[0]
	for _, h := range p.handlers {
		if cmd == h.prefix {
			return errorResponse("Sai cú pháp cho lệnh '" + cmd + "'.")
		}
	}
	return Response{
		Message: "Lệnh '" + cmd + "' không được hỗ trợ.",
		Objects: []any{map[string]string{"command": cmd}},
		Action:  ActionError,
	}
}
