package ticket

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is the route ticket files are served under.
const URLPrefix = "/tickets"

// Publisher writes rendered tickets where the provider can fetch them by URL.
type Publisher struct {
	Dir  string
	Host string

	now   func() time.Time
	token func() string
}

func NewPublisher(dir, host string) *Publisher {
	return &Publisher{
		Dir:   dir,
		Host:  host,
		now:   time.Now,
		token: func() string { return uuid.NewString()[:8] },
	}
}

// Published is the location of one written ticket.
type Published struct {
	Path string
	URL  string
}

// Publish writes data as ticket_<payload>_<unixnano>_<token>.png.
// The timestamp and random token keep concurrent renders for one recipient apart.
func (p *Publisher) Publish(payload string, data []byte) (Published, error) {
	name := fmt.Sprintf("ticket_%s_%d_%s.png", sanitize(payload), p.now().UnixNano(), p.token())
	path := filepath.Join(p.Dir, name)

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return Published{}, fmt.Errorf("create public dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Published{}, fmt.Errorf("write ticket: %w", err)
	}

	u := url.URL{Scheme: "https", Host: p.Host, Path: URLPrefix + "/" + name}
	return Published{Path: path, URL: u.String()}, nil
}

// sanitize keeps file names to a safe alphabet; recipient ids are phone numbers
// in practice.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
