package state

import (
	"slices"
	"strconv"
)

// history is the single ordered log of stroke and entity ids. Its order
// decides what undo removes next.
type history struct {
	ids []string
}

func (h *history) push(id string) {
	h.ids = append(h.ids, id)
}

// remove drops the first occurrence of id.
func (h *history) remove(id string) bool {
	i := slices.Index(h.ids, id)
	if i < 0 {
		return false
	}
	h.ids = slices.Delete(h.ids, i, i+1)
	return true
}

func (h *history) last() (string, bool) {
	if len(h.ids) == 0 {
		return "", false
	}
	return h.ids[len(h.ids)-1], true
}

func (h *history) len() int {
	return len(h.ids)
}

func (h *history) clear() {
	h.ids = nil
}

func (h *history) snapshot() []string {
	return slices.Clone(h.ids)
}

// isPathID reports whether id names a stroke. Stroke ids are integers,
// entity ids are UUIDs.
func isPathID(id string) bool {
	_, err := strconv.Atoi(id)
	return err == nil
}

func parsePathID(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	return n, err == nil
}
