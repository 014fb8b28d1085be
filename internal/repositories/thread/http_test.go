package thread

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type HTTPReaderTestSuite struct {
	suite.Suite
	server   *httptest.Server
	reader   Reader
	mu       sync.Mutex
	requests []string
	failures atomic.Int32
	status   atomic.Int32
}

func (s *HTTPReaderTestSuite) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *HTTPReaderTestSuite) SetupTest() {
	s.requests = nil
	s.failures.Store(0)
	s.status.Store(http.StatusOK)

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.RequestURI())
		s.mu.Unlock()
		if s.failures.Load() > 0 {
			s.failures.Add(-1)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(int(s.status.Load()))
		fmt.Fprintf(w, `<div class="cf post" data-num="31" data-autor="%s"><h4>voto bob</h4></div>
<div id="bottompanel"><a>1</a><a>2</a><a>next</a></div>`, r.URL.Query().Get("u"))
	}))

	reader, err := NewHTTP(&Config{
		ThreadURL:       s.server.URL + "/foro/juegos/partida-mafia-123456/",
		MaxTries:        3,
		InitialInterval: time.Millisecond,
		Logger:          slog.New(slog.DiscardHandler),
	})
	s.Require().NoError(err)
	s.reader = reader
}

func (s *HTTPReaderTestSuite) TearDownTest() {
	s.server.Close()
}

func TestHTTPReaderTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPReaderTestSuite))
}

func (s *HTTPReaderTestSuite) TestNewHTTP_Validation() {
	_, err := NewHTTP(nil)
	s.Error(err)

	_, err = NewHTTP(&Config{})
	s.Error(err)
}

func (s *HTTPReaderTestSuite) TestFetchPage() {
	page, err := s.reader.FetchPage(context.Background(), &FetchPageInput{Page: 2})

	s.Require().NoError(err)
	s.Equal([]string{"/foro/juegos/partida-mafia-123456/2"}, s.recorded())
	s.Equal(2, page.Number)
	s.Equal(2, page.PageCount)
	s.Require().Len(page.Posts, 1)
	s.Equal(31, page.Posts[0].ID)
}

func (s *HTTPReaderTestSuite) TestFetchUserPage() {
	page, err := s.reader.FetchUserPage(context.Background(), &FetchUserPageInput{User: "Narrador", Page: 3})

	s.Require().NoError(err)
	s.Equal([]string{"/foro/juegos/partida-mafia-123456?pagina=3&u=Narrador"}, s.recorded())
	s.Require().Len(page.Posts, 1)
	s.Equal("narrador", page.Posts[0].Author.String())
}

func (s *HTTPReaderTestSuite) TestFetchPage_RetriesServerErrors() {
	s.failures.Store(2)

	page, err := s.reader.FetchPage(context.Background(), &FetchPageInput{Page: 1})

	s.Require().NoError(err)
	s.Len(s.recorded(), 3)
	s.Len(page.Posts, 1)
}

func (s *HTTPReaderTestSuite) TestFetchPage_GivesUpAfterMaxTries() {
	s.failures.Store(5)

	_, err := s.reader.FetchPage(context.Background(), &FetchPageInput{Page: 1})

	s.Require().Error(err)
	s.Len(s.recorded(), 3)
}

func (s *HTTPReaderTestSuite) TestFetchPage_ClientErrorIsPermanent() {
	s.status.Store(http.StatusNotFound)

	_, err := s.reader.FetchPage(context.Background(), &FetchPageInput{Page: 1})

	s.Require().Error(err)
	s.Len(s.recorded(), 1)
}

func (s *HTTPReaderTestSuite) TestFetchPage_InvalidInput() {
	_, err := s.reader.FetchPage(context.Background(), &FetchPageInput{Page: 0})
	s.Error(err)

	_, err = s.reader.FetchUserPage(context.Background(), &FetchUserPageInput{Page: 1})
	s.Error(err)
	s.Empty(s.recorded())
}
