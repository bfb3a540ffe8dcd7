package infohub

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// maxSequence caps the number of live documents per group. Ids freed by
// deletion are reused before new sequence numbers are minted.
const maxSequence = 999

var (
	ErrNotFound = errors.New("thông tin không tồn tại")
	ErrHubFull  = errors.New("nhóm đã đạt giới hạn lưu trữ thông tin")
)

// Information is one stored document. Deleted documents stay in the store
// as tombstones and are excluded from every query; their id returns to the
// reuse pool and may later name a completely unrelated document.
type Information struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Deleted bool   `json:"deleted"`
}

// Posting locates one token occurrence: which document and at which word
// position. Posting lists are kept sorted by (DocID, Pos); range deletion
// by document relies on that order.
type Posting struct {
	DocID int
	Pos   int
}

// Stats summarizes one group's hub.
type Stats struct {
	TotalDocuments   int `json:"total_documents"`
	DeletedDocuments int `json:"deleted_documents"`
	TitleWords       int `json:"unique_title_words"`
	ContentWords     int `json:"unique_content_words"`
}

// Hub stores one group's documents with inverted indexes over title and
// content tokens.
type Hub struct {
	mu      sync.RWMutex
	groupID string
	prefix  int
	nextSeq int
	freeIDs []int

	docs         map[int]*Information
	titleIndex   map[string][]Posting
	contentIndex map[string][]Posting

	// Distinct tokens per document, so deletion never re-tokenizes.
	titleWords   map[int]map[string]struct{}
	contentWords map[int]map[string]struct{}
}

func New(groupID string) *Hub {
	return &Hub{
		groupID:      groupID,
		prefix:       groupPrefix(groupID),
		nextSeq:      1,
		docs:         make(map[int]*Information),
		titleIndex:   make(map[string][]Posting),
		contentIndex: make(map[string][]Posting),
		titleWords:   make(map[int]map[string]struct{}),
		contentWords: make(map[int]map[string]struct{}),
	}
}

func (h *Hub) GroupID() string {
	return h.groupID
}

// groupPrefix derives a stable numeric prefix from the group id so that
// document ids are visually distinguishable across groups.
func groupPrefix(groupID string) int {
	f := fnv.New32a()
	f.Write([]byte(groupID))
	return int(f.Sum32() % 1000)
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// tokenize splits text into lowercase word tokens. Unicode letters count,
// so Vietnamese text tokenizes as expected.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// allocateID prefers ids from the reuse pool; otherwise it mints
// prefix*1000 + seq for the next free sequence slot.
func (h *Hub) allocateID() (int, error) {
	if n := len(h.freeIDs); n > 0 {
		id := h.freeIDs[n-1]
		h.freeIDs = h.freeIDs[:n-1]
		return id, nil
	}
	if h.nextSeq > maxSequence {
		return 0, fmt.Errorf("%w (tối đa %d)", ErrHubFull, maxSequence)
	}
	id := h.prefix*1000 + h.nextSeq
	h.nextSeq++
	return id, nil
}

// AddDocument stores a document and indexes its title and content,
// returning the allocated id.
func (h *Hub) AddDocument(title, content string) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, err := h.allocateID()
	if err != nil {
		return 0, err
	}
	h.docs[id] = &Information{ID: id, Title: title, Content: content}
	h.indexDocument(id, title, content)
	return id, nil
}

func (h *Hub) indexDocument(id int, title, content string) {
	h.titleWords[id] = make(map[string]struct{})
	for pos, word := range tokenize(title) {
		insertPosting(h.titleIndex, word, Posting{DocID: id, Pos: pos})
		h.titleWords[id][word] = struct{}{}
	}
	h.contentWords[id] = make(map[string]struct{})
	for pos, word := range tokenize(content) {
		insertPosting(h.contentIndex, word, Posting{DocID: id, Pos: pos})
		h.contentWords[id][word] = struct{}{}
	}
}

func (h *Hub) unindexDocument(id int) {
	for word := range h.titleWords[id] {
		removePostings(h.titleIndex, word, id)
	}
	for word := range h.contentWords[id] {
		removePostings(h.contentIndex, word, id)
	}
	delete(h.titleWords, id)
	delete(h.contentWords, id)
}

// insertPosting keeps the token's posting list sorted by (DocID, Pos).
func insertPosting(index map[string][]Posting, word string, p Posting) {
	postings := index[word]
	i := sort.Search(len(postings), func(i int) bool {
		if postings[i].DocID != p.DocID {
			return postings[i].DocID > p.DocID
		}
		return postings[i].Pos >= p.Pos
	})
	postings = append(postings, Posting{})
	copy(postings[i+1:], postings[i:])
	postings[i] = p
	index[word] = postings
}

// removePostings drops the contiguous run of postings for docID and
// removes the token entirely once its list empties.
func removePostings(index map[string][]Posting, word string, docID int) {
	postings := index[word]
	lo := sort.Search(len(postings), func(i int) bool { return postings[i].DocID >= docID })
	hi := sort.Search(len(postings), func(i int) bool { return postings[i].DocID > docID })
	if lo == hi {
		return
	}
	postings = append(postings[:lo], postings[hi:]...)
	if len(postings) == 0 {
		delete(index, word)
		return
	}
	index[word] = postings
}

// DeleteDocument tombstones a document, drops its postings and releases
// its id for reuse.
func (h *Hub) DeleteDocument(id int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, ok := h.docs[id]
	if !ok || doc.Deleted {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	doc.Deleted = true
	h.unindexDocument(id)
	h.freeIDs = append(h.freeIDs, id)
	return nil
}

// UpdateDocument replaces title and/or content of a live document and
// reindexes it. A nil field is left unchanged.
func (h *Hub) UpdateDocument(id int, title, content *string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, ok := h.docs[id]
	if !ok || doc.Deleted {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	h.unindexDocument(id)
	if title != nil {
		doc.Title = *title
	}
	if content != nil {
		doc.Content = *content
	}
	h.indexDocument(id, doc.Title, doc.Content)
	return nil
}

// GetDocument returns a copy of the document unless it is unknown or
// tombstoned.
func (h *Hub) GetDocument(id int) (Information, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	doc, ok := h.docs[id]
	if !ok || doc.Deleted {
		return Information{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return *doc, nil
}

// Search looks up the first token of the query in both indexes. Documents
// matching in the title come first, then documents matching only in the
// content; within each tier results are ordered by ascending id. Matching
// a single token only is deliberate: queries are treated as one keyword.
func (h *Hub) Search(query string) []Information {
	h.mu.RLock()
	defer h.mu.RUnlock()

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	term := tokens[0]

	titleIDs := matchedIDs(h.titleIndex[term])
	contentIDs := matchedIDs(h.contentIndex[term])

	inTitle := make(map[int]struct{}, len(titleIDs))
	var results []Information
	for _, id := range titleIDs {
		inTitle[id] = struct{}{}
		if doc, ok := h.docs[id]; ok && !doc.Deleted {
			results = append(results, *doc)
		}
	}
	for _, id := range contentIDs {
		if _, dup := inTitle[id]; dup {
			continue
		}
		if doc, ok := h.docs[id]; ok && !doc.Deleted {
			results = append(results, *doc)
		}
	}
	return results
}

// matchedIDs collapses a sorted posting list to its distinct document ids,
// preserving ascending order.
func matchedIDs(postings []Posting) []int {
	var ids []int
	for _, p := range postings {
		if len(ids) == 0 || ids[len(ids)-1] != p.DocID {
			ids = append(ids, p.DocID)
		}
	}
	return ids
}

// GetStats reports document counts and index sizes for the group.
func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	active := 0
	for _, doc := range h.docs {
		if !doc.Deleted {
			active++
		}
	}
	return Stats{
		TotalDocuments:   active,
		DeletedDocuments: len(h.freeIDs),
		TitleWords:       len(h.titleIndex),
		ContentWords:     len(h.contentIndex),
	}
}
