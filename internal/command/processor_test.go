package command

import (
	"strconv"
	"strings"
	"testing"

	"github.com/minhqv/nhombot/internal/infohub"
	"github.com/minhqv/nhombot/internal/ledger"
)

func newTestProcessor() *Processor {
	return NewProcessor(ledger.NewRegistry(), infohub.NewRegistry())
}

func TestProcessFallback(t *testing.T) {
	p := newTestProcessor()
	resp := p.Process("chào mọi người", "g1")
	if resp.Action != ActionFallback {
		t.Errorf("action = %v, want fallback", resp.Action)
	}
}

func TestProcessUnknownCommand(t *testing.T) {
	p := newTestProcessor()
	resp := p.Process("/không-tồn-tại abc", "g1")
	if resp.Action != ActionError {
		t.Errorf("action = %v, want error", resp.Action)
	}
	if !strings.Contains(resp.Message, "/không-tồn-tại") {
		t.Errorf("message %q does not name the command", resp.Message)
	}
}

func TestProcessMoneyFlow(t *testing.T) {
	p := newTestProcessor()
	lg := p.ledgers.Get("g1")

	resp := p.Process("/tiền an nợ bình 100k tiền ăn", "g1")
	if resp.Action != ActionPayment {
		t.Fatalf("action = %v, want payment (message %q)", resp.Action, resp.Message)
	}
	if got := lg.MemberDebts("an", ledger.Original)["bình"]; got != 100000 {
		t.Errorf("original[an][bình] = %v, want 100000", got)
	}

	resp = p.Process("/tiền an trả bình 30k", "g1")
	if resp.Action != ActionPayment {
		t.Fatalf("action = %v, want payment (message %q)", resp.Action, resp.Message)
	}
	if got := lg.NetBalance("an"); got != -70000 {
		t.Errorf("net(an) = %v, want -70000", got)
	}

	plan := lg.TotalDebts(ledger.Optimized)
	if got := plan["an"]["bình"]; got != 70000 {
		t.Errorf("optimized[an][bình] = %v, want 70000", got)
	}
}

func TestProcessMoneyBadSyntax(t *testing.T) {
	p := newTestProcessor()
	if resp := p.Process("/tiền an tặng bình 50k", "g1"); resp.Action != ActionError {
		t.Errorf("unknown verb: action = %v, want error", resp.Action)
	}
	if resp := p.Process("/tiền an nợ bình nhiều lắm", "g1"); resp.Action != ActionError {
		t.Errorf("missing amount: action = %v, want error", resp.Action)
	}
	if resp := p.Process("/tiền", "g1"); resp.Action != ActionError || !strings.Contains(resp.Message, "Sai cú pháp") {
		t.Errorf("bare command: got action %v message %q, want syntax error", resp.Action, resp.Message)
	}
}

func TestProcessMoneyStatus(t *testing.T) {
	p := newTestProcessor()
	p.Process("/tiền an nợ bình 50k", "g1")
	resp := p.Process("/trạng-thái-tiền", "g1")
	if resp.Action != ActionInfo {
		t.Errorf("action = %v, want information", resp.Action)
	}
	if len(resp.Objects) != 1 {
		t.Fatalf("objects = %d entries, want 1", len(resp.Objects))
	}
}

func TestProcessRemoveMember(t *testing.T) {
	p := newTestProcessor()
	p.Process("/tiền an nợ bình 50k", "g1")

	if resp := p.Process("/xóa-thành-viên an", "g1"); resp.Action != ActionError {
		t.Errorf("removing indebted member: action = %v, want error", resp.Action)
	}
	if resp := p.Process("/buộc-xóa-thành-viên an", "g1"); resp.Action != ActionPayment {
		t.Errorf("force removal: action = %v, want payment (message %q)", resp.Action, resp.Message)
	}
}

func TestProcessInfoFlow(t *testing.T) {
	p := newTestProcessor()

	resp := p.Process("/thêm-thông-tin Mật khẩu wifi | hunter2 đổi hàng tháng", "g1")
	if resp.Action != ActionInfo {
		t.Fatalf("add: action = %v, want information (message %q)", resp.Action, resp.Message)
	}

	resp = p.Process("/tìm-thông-tin wifi", "g1")
	if resp.Action != ActionInfo || len(resp.Objects) != 1 {
		t.Fatalf("find: got %d objects (message %q), want 1", len(resp.Objects), resp.Message)
	}

	id := p.hubs.Get("g1").Search("wifi")[0].ID
	resp = p.Process("/xem-thông-tin "+strconv.Itoa(id), "g1")
	if resp.Action != ActionInfo {
		t.Errorf("get: action = %v, want information", resp.Action)
	}

	resp = p.Process("/sửa-thông-tin "+strconv.Itoa(id)+" | hunter3", "g1")
	if resp.Action != ActionInfo {
		t.Fatalf("update: action = %v (message %q)", resp.Action, resp.Message)
	}
	doc, err := p.hubs.Get("g1").GetDocument(id)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Title != "Mật khẩu wifi" || doc.Content != "hunter3" {
		t.Errorf("after update = %+v, want kept title and new content", doc)
	}

	resp = p.Process("/xóa-thông-tin "+strconv.Itoa(id), "g1")
	if resp.Action != ActionInfo {
		t.Errorf("delete: action = %v, want information", resp.Action)
	}
	if resp := p.Process("/tìm-thông-tin wifi", "g1"); len(resp.Objects) != 0 {
		t.Errorf("find after delete: got %d objects, want 0", len(resp.Objects))
	}
}

func TestProcessInfoStats(t *testing.T) {
	p := newTestProcessor()
	p.Process("/thêm-thông-tin a | b", "g1")
	resp := p.Process("/thống-kê", "g1")
	if resp.Action != ActionInfo {
		t.Errorf("action = %v, want information", resp.Action)
	}
}

func TestProcessGroupsAreIsolated(t *testing.T) {
	p := newTestProcessor()
	p.Process("/thêm-thông-tin wifi | hunter2", "g1")

	if resp := p.Process("/tìm-thông-tin wifi", "g2"); len(resp.Objects) != 0 {
		t.Errorf("group g2 sees g1's documents: %v", resp.Objects)
	}

	p.Process("/tiền an nợ bình 50k", "g1")
	if got := p.ledgers.Get("g2").Members(); len(got) != 0 {
		t.Errorf("group g2 sees g1's members: %v", got)
	}
}

