package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	infoAddPattern    = regexp.MustCompile(`^/thêm-thông-tin\s+(?P<title>.+?)\s*\|\s*(?P<content>.+)$`)
	infoFindPattern   = regexp.MustCompile(`^/tìm-thông-tin\s+(?P<query>.+)$`)
	infoGetPattern    = regexp.MustCompile(`^/xem-thông-tin\s+(?P<id>\d+)\s*$`)
	infoUpdatePattern = regexp.MustCompile(`^/sửa-thông-tin\s+(?P<id>\d+)\s+(?P<title>.*?)\s*\|\s*(?P<content>.*)$`)
	infoDeletePattern = regexp.MustCompile(`^/xóa-thông-tin\s+(?P<id>\d+)\s*$`)
	infoStatsPattern  = regexp.MustCompile(`^/thống-kê\s*$`)
)

func handleInfoAdd(p *Processor, params map[string]string, groupID string) Response {
	title := strings.TrimSpace(params["title"])
	content := strings.TrimSpace(params["content"])

	id, err := p.hubs.Get(groupID).AddDocument(title, content)
	if err != nil {
		return errorResponse(err.Error())
	}
	return Response{
		Message: fmt.Sprintf("Đã lưu thông tin (ID: %d): %s", id, title),
		Objects: []any{map[string]any{"id": id, "title": title}},
		Action:  ActionInfo,
	}
}

func handleInfoFind(p *Processor, params map[string]string, groupID string) Response {
	query := params["query"]
	results := p.hubs.Get(groupID).Search(query)

	if len(results) == 0 {
		return Response{
			Message: fmt.Sprintf("Không tìm thấy kết quả nào cho '%s'.", query),
			Objects: []any{},
			Action:  ActionInfo,
		}
	}
	objects := make([]any, 0, len(results))
	for _, r := range results {
		objects = append(objects, map[string]any{"id": r.ID, "title": r.Title, "content": r.Content})
	}
	return Response{
		Message: fmt.Sprintf("Tìm thấy %d kết quả cho '%s':", len(results), query),
		Objects: objects,
		Action:  ActionInfo,
	}
}

func handleInfoGet(p *Processor, params map[string]string, groupID string) Response {
	id, _ := strconv.Atoi(params["id"])
	doc, err := p.hubs.Get(groupID).GetDocument(id)
	if err != nil {
		return errorResponse(err.Error())
	}
	return Response{
		Message: fmt.Sprintf("(ID: %d) %s\n%s", doc.ID, doc.Title, doc.Content),
		Objects: []any{map[string]any{"id": doc.ID, "title": doc.Title, "content": doc.Content}},
		Action:  ActionInfo,
	}
}

// handleInfoUpdate keeps a side unchanged when it is left empty, so
// "/sửa-thông-tin 42 | nội dung mới" only replaces the content.
func handleInfoUpdate(p *Processor, params map[string]string, groupID string) Response {
	id, _ := strconv.Atoi(params["id"])
	var title, content *string
	if t := strings.TrimSpace(params["title"]); t != "" {
		title = &t
	}
	if c := strings.TrimSpace(params["content"]); c != "" {
		content = &c
	}
	if err := p.hubs.Get(groupID).UpdateDocument(id, title, content); err != nil {
		return errorResponse(err.Error())
	}
	return Response{
		Message: fmt.Sprintf("Đã cập nhật thông tin (ID: %d).", id),
		Objects: []any{map[string]any{"id": id}},
		Action:  ActionInfo,
	}
}

func handleInfoDelete(p *Processor, params map[string]string, groupID string) Response {
	id, _ := strconv.Atoi(params["id"])
	if err := p.hubs.Get(groupID).DeleteDocument(id); err != nil {
		return errorResponse(err.Error())
	}
	return Response{
		Message: fmt.Sprintf("Đã xóa thông tin (ID: %d).", id),
		Objects: []any{map[string]any{"id": id}},
		Action:  ActionInfo,
	}
}

func handleInfoStats(p *Processor, params map[string]string, groupID string) Response {
	stats := p.hubs.Get(groupID).GetStats()
	return Response{
		Message: fmt.Sprintf(
			"Nhóm có %d thông tin đang lưu, %d ID chờ tái sử dụng.",
			stats.TotalDocuments, stats.DeletedDocuments,
		),
		Objects: []any{stats},
		Action:  ActionInfo,
	}
}
