package command

import (
	"fmt"
	"regexp"

	"github.com/minhqv/nhombot/internal/ledger"
)

var (
	moneyPattern        = regexp.MustCompile(`^/tiền\s+(?P<person>\S+)\s+(?P<details>.+)$`)
	moneyStatusPattern  = regexp.MustCompile(`^/trạng-thái-tiền\s*$`)
	removeMemberPattern = regexp.MustCompile(`^/xóa-thành-viên\s+(?P<person>\S+)\s*$`)
	forceRemovePattern  = regexp.MustCompile(`^/buộc-xóa-thành-viên\s+(?P<person>\S+)\s*$`)

	owePattern = regexp.MustCompile(`(?i)^(?:nợ|thiếu|chịu)\s+(?P<other>\S+)\s+(?P<rest>.*)$`)
	payPattern = regexp.MustCompile(`(?i)^(?:trả|thanh toán)\s+(?P<other>\S+)\s+(?P<rest>.*)$`)
)

// handleMoney records "/tiền A nợ B 50k ..." (a new debt) or
// "/tiền A trả B 50k ..." (a repayment, stored as a negative amount).
func handleMoney(p *Processor, params map[string]string, groupID string) Response {
	person := params["person"]
	details := params["details"]

	var other, rest, verb string
	multiplier := 1.0
	if m := owePattern.FindStringSubmatch(details); m != nil {
		other, rest, verb = m[1], m[2], "nợ"
	} else if m := payPattern.FindStringSubmatch(details); m != nil {
		other, rest, verb = m[1], m[2], "trả"
		multiplier = -1.0
	} else {
		return errorResponse("Sai cú pháp. Dùng: /tiền <A> nợ|trả <B> <số tiền> [ghi chú]")
	}

	amountStr, note := SplitAmountContent(rest)
	if amountStr == "" {
		return errorResponse("Thiếu số tiền.")
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return errorResponse(err.Error())
	}

	lg := p.ledgers.Get(groupID)
	lg.Update(person, other, amount*multiplier)
	lg.Settle()
	debts := lg.MemberDebts(person, ledger.Original)

	msg := fmt.Sprintf("Ghi nhận: %s %s %s %s.", person, verb, other, formatAmount(amount))
	if note != "" {
		msg += fmt.Sprintf(" (%s)", note)
	}
	return Response{
		Message: msg,
		Objects: []any{map[string]any{
			"left":          person,
			"right":         other,
			"amount":        amount,
			"current_debts": debts,
		}},
		Action: ActionPayment,
	}
}

func handleMoneyStatus(p *Processor, params map[string]string, groupID string) Response {
	lg := p.ledgers.Get(groupID)
	original := lg.TotalDebts(ledger.Original)
	optimized := lg.Settle()

	return Response{
		Message: fmt.Sprintf("Đã cập nhật trạng thái nợ cho nhóm %s.", groupID),
		Objects: []any{map[string]any{
			"original":  original,
			"optimized": optimized,
		}},
		Action: ActionInfo,
	}
}

func handleRemoveMember(p *Processor, params map[string]string, groupID string) Response {
	person := params["person"]
	if err := p.ledgers.Get(groupID).RemoveMember(person); err != nil {
		return errorResponse(err.Error())
	}
	return Response{
		Message: fmt.Sprintf("Đã xóa thành viên %s.", person),
		Objects: []any{map[string]string{"member": person}},
		Action:  ActionPayment,
	}
}

func handleForceRemoveMember(p *Processor, params map[string]string, groupID string) Response {
	person := params["person"]
	if err := p.ledgers.Get(groupID).ForceRemoveMember(person, true); err != nil {
		return errorResponse(err.Error())
	}
	return Response{
		Message: fmt.Sprintf("Đã cân nợ và xóa thành viên %s.", person),
		Objects: []any{map[string]string{"member": person}},
		Action:  ActionPayment,
	}
}
