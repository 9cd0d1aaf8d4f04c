// internal/testutil/fixtures.go
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// Payload fixtures shared by adapter and pipeline tests.

// FixtureRSS is a two-entry RSS 2.0 document.
const FixtureRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Global Youth Board</title>
    <link>https://board.example.org</link>
    <description>Opportunities</description>
    <item>
      <title>Young Innovators Contest</title>
      <link>https://board.example.org/contest</link>
      <description>Build something new.</description>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
      <category>STEM</category>
      <category>Innovation</category>
    </item>
    <item>
      <title>Arts Fellowship</title>
      <link>https://board.example.org/arts</link>
      <description>For emerging artists.</description>
    </item>
  </channel>
</rss>`

// FixtureCSV has a header and two data rows, the second without a title.
const FixtureCSV = `title,url,organization,country,type,tags
"Global Math Olympiad",https://math.example.org/olympiad,Math Society,USA,contest,math;olympiad
,https://math.example.org/orphan,Math Society,UK,contest,
`

// FixtureHTML lists three cards; the last has no link.
const FixtureHTML = `<html><body>
<div class="card">
  <h2 class="title">Summer Research Camp</h2>
  <a class="link" href="/camps/research">Apply</a>
  <p class="desc">Four weeks in the lab.</p>
  <span class="deadline">2025-07-01</span>
  <span class="org">Lab Institute</span>
</div>
<div class="card">
  <h2 class="title">Coding Bootcamp</h2>
  <a class="link" href="https://other.example.net/bootcamp">Apply</a>
</div>
<div class="card">
  <h2 class="title">Broken Card</h2>
</div>
</body></html>`

// FixtureJSON nests two records under data.items.
const FixtureJSON = `{"data":{"items":[
  {"name":"Ocean Science Scholarship","link":"https://ocean.example.org/s","provider":{"name":"Ocean Trust"},"country":"Canada","kind":"scholarship","topics":["Marine","Biology"]},
  {"title":"Debate Cup","url":"https://debate.example.org/cup","organization":"Debate League","level":"high school"}
]}}`

// Server is an httptest server returning a fixed body and counting hits.
type Server struct {
	*httptest.Server
	Hits atomic.Int64
}

// NewServer starts a server answering every request with body and contentType.
// It is closed when the test ends.
func NewServer(t *testing.T, contentType, body string) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Hits.Add(1)
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

// NewStatusServer starts a server that always answers with status.
func NewStatusServer(t *testing.T, status int) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Hits.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(s.Close)
	return s
}
