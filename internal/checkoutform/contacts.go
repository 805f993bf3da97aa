package checkoutform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"paylink/internal/normalize"
)

const DefaultContactLimit = 20

type Contact struct {
	Phone    string    `json:"phone"`
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email,omitempty"`
	LastUsed time.Time `json:"lastUsed"`
}

// Contacts keeps the most recently used buyers, newest first. It only feeds
// suggestions and is safe to lose.
type Contacts struct {
	mu    sync.Mutex
	path  string
	limit int
	items []Contact
	now   func() time.Time
}

// OpenContacts loads the cache from path. An empty path keeps it in memory only.
func OpenContacts(path string, limit int) (*Contacts, error) {
	if limit <= 0 {
		limit = DefaultContactLimit
	}
	c := &Contacts{path: path, limit: limit, now: time.Now}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read contacts: %w", err)
	}

	if err := json.Unmarshal(data, &c.items); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	if len(c.items) > limit {
		c.items = c.items[:limit]
	}
	return c, nil
}

// Upsert moves the contact for phone to the front, merging in non-empty fields.
func (c *Contacts) Upsert(contact Contact) error {
	if contact.Phone == "" {
		return errors.New("contact phone required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	merged := contact
	rest := make([]Contact, 0, len(c.items))
	for _, it := range c.items {
		if it.Phone != contact.Phone {
			rest = append(rest, it)
			continue
		}
		if merged.Name == "" {
			merged.Name = it.Name
		}
		if merged.Email == "" {
			merged.Email = it.Email
		}
	}
	merged.LastUsed = c.now()

	c.items = append([]Contact{merged}, rest...)
	if len(c.items) > c.limit {
		c.items = c.items[:c.limit]
	}
	return c.save()
}

func (c *Contacts) Get(phone string) (Contact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.Phone == phone {
			return it, true
		}
	}
	return Contact{}, false
}

// Recent returns the contacts, most recently used first.
func (c *Contacts) Recent() []Contact {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Contact, len(c.items))
	copy(out, c.items)
	return out
}

// Suggest matches a phone fragment anywhere in the number, or a text prefix
// against name and email.
func (c *Contacts) Suggest(prefix string) []Contact {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return c.Recent()
	}
	digits := normalize.Digits(prefix)
	isPhone := digits != "" && strings.Trim(prefix, "+0123456789 -") == ""

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Contact
	for _, it := range c.items {
		if isPhone {
			if strings.Contains(normalize.Digits(it.Phone), digits) {
				out = append(out, it)
			}
			continue
		}
		if strings.HasPrefix(strings.ToLower(it.Name), prefix) || strings.HasPrefix(strings.ToLower(it.Email), prefix) {
			out = append(out, it)
		}
	}
	return out
}

// save must be called with mu held.
func (c *Contacts) save() error {
	if c.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(c.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create contacts dir: %w", err)
		}
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write contacts: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace contacts: %w", err)
	}
	return nil
}
