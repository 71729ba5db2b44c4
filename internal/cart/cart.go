package cart

import (
	"time"

	"github.com/Skotchmaster/crochet_store/internal/catalog"
)

const NoticeDelay = 3000 * time.Millisecond

type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

func (l Line) Total() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart keeps at most one line per product id, in first-added order.
// A Cart is not safe for concurrent use; callers serialize access.
type Cart struct {
	lines  []Line
	notice *Notice
}

func New() *Cart {
	return &Cart{notice: NewNotice(NoticeDelay)}
}

func NewWithNotice(n *Notice) *Cart {
	return &Cart{notice: n}
}

func (c *Cart) index(productID int) int {
	for i := range c.lines {
		if c.lines[i].ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) AddItem(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, Line{Product: p, Quantity: 1})
	}
	c.notice.Show()
}

func (c *Cart) RemoveItem(productID int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity with n < 1 removes the line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(productID, n int) {
	if n < 1 {
		c.RemoveItem(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = n
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Quantity(productID int) int {
	if i := c.index(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.Total()
	}
	return sum
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Restore replaces the lines, merging duplicate ids and dropping
// non-positive quantities.
func (c *Cart) Restore(lines []Line) {
	c.lines = nil
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.index(l.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
}

func (c *Cart) Notified() bool {
	return c.notice.Visible()
}

type Summary struct {
	Items      []Line `json:"items"`
	TotalItems int    `json:"total_items"`
	TotalPrice int64  `json:"total_price"`
	ItemAdded  bool   `json:"item_added"`
}

func (c *Cart) Summary() Summary {
	return Summary{
		Items:      c.Lines(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		ItemAdded:  c.Notified(),
	}
}
