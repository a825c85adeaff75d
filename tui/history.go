// Package tui provides a Bubble Tea terminal UI for commanding a naval battle.
package tui

import "strings"

// History is a bounded list of issued orders. Up and Down walk it from the
// newest entry backwards.
type History struct {
	orders []string
	limit  int
	pos    int // len(orders) while not browsing
}

// NewHistory creates a history that keeps at most limit orders.
func NewHistory(limit int) *History {
	return &History{orders: make([]string, 0, limit), limit: limit}
}

// Push records an order. Repeats of the newest entry and the again/g
// shorthand are not recorded, so browsing always yields a real order.
func (h *History) Push(order string) {
	defer h.ResetCursor()
	switch strings.ToLower(order) {
	case "again", "g":
		return
	}
	if n := len(h.orders); n > 0 && h.orders[n-1] == order {
		return
	}
	if len(h.orders) == h.limit {
		h.orders = h.orders[1:]
	}
	h.orders = append(h.orders, order)
}

// Prev steps to the next older order, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.orders) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.orders[h.pos], true
}

// Next steps to the next newer order. Stepping past the newest returns
// false and ends browsing.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.orders) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.orders) {
		return "", false
	}
	return h.orders[h.pos], true
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.pos = len(h.orders)
}
