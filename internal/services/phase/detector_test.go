package phase

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/repositories/thread"
	"github.com/KirkDiggler/mafiabot/internal/repositories/thread/mocks"
)

type DetectorTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	reader   *mocks.MockReader
	detector *Detector
	pages    map[int]*models.Page
}

func (s *DetectorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.reader = mocks.NewMockReader(s.ctrl)
	s.pages = map[int]*models.Page{}

	s.reader.EXPECT().
		FetchUserPage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *thread.FetchUserPageInput) (*models.Page, error) {
			s.Equal("Narrador", input.User)
			page, ok := s.pages[input.Page]
			if !ok {
				return &models.Page{Number: input.Page, PageCount: len(s.pages)}, nil
			}
			return page, nil
		}).
		AnyTimes()

	detector, err := New(&Config{
		Reader:     s.reader,
		GameMaster: "Narrador",
		Logger:     slog.New(slog.DiscardHandler),
	})
	s.Require().NoError(err)
	s.detector = detector
}

func (s *DetectorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDetectorTestSuite(t *testing.T) {
	suite.Run(t, new(DetectorTestSuite))
}

func (s *DetectorTestSuite) addPage(number, count int, posts ...models.Post) {
	s.pages[number] = &models.Page{Number: number, PageCount: count, Posts: posts}
}

func gmPost(id int, headings []models.Heading, lists ...[]string) models.Post {
	return models.Post{ID: id, Author: "narrador", Headings: headings, Lists: lists}
}

func h2(text string) models.Heading {
	return models.NewHeading(2, text)
}

func (s *DetectorTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{GameMaster: "Narrador"})
	s.ErrorIs(err, ErrNilReader)

	_, err = New(&Config{Reader: s.reader})
	s.ErrorIs(err, ErrEmptyGameMaster)
}

func (s *DetectorTestSuite) TestDetect_DayStartWithRoster() {
	s.addPage(1, 2,
		gmPost(1, []models.Heading{h2("Día 1")}, []string{"Old"}),
	)
	s.addPage(2, 2,
		gmPost(120, []models.Heading{h2("Día 3")}, []string{"Alice", " Bob ", "CAROL"}, []string{"ignored"}),
		gmPost(130, []models.Heading{h2("Aclaraciones")}),
	)

	detection, err := s.detector.Detect(context.Background())

	s.Require().NoError(err)
	s.Equal(models.PhaseDay, detection.Phase)
	s.Equal(&Marker{Kind: MarkerDayStart, DayNumber: 3, PostID: 120}, detection.Marker)
	s.Equal([]models.PlayerID{"alice", "bob", "carol"}, detection.Roster)
}

func (s *DetectorTestSuite) TestDetect_DayEndMeansNight() {
	s.addPage(1, 1,
		gmPost(120, []models.Heading{h2("Día 3")}, []string{"Alice"}),
		gmPost(150, []models.Heading{h2("Final del día 3")}),
	)

	detection, err := s.detector.Detect(context.Background())

	s.Require().NoError(err)
	s.Equal(models.PhaseNight, detection.Phase)
	s.Equal(MarkerDayEnd, detection.Marker.Kind)
	s.Equal(150, detection.Marker.PostID)
	s.Nil(detection.Roster)
}

func (s *DetectorTestSuite) TestDetect_NoMarkerMeansNight() {
	s.addPage(1, 1, gmPost(3, []models.Heading{h2("Reglas")}))

	detection, err := s.detector.Detect(context.Background())

	s.Require().NoError(err)
	s.Equal(models.PhaseNight, detection.Phase)
	s.Nil(detection.Marker)
}

func (s *DetectorTestSuite) TestDetect_IgnoresOtherAuthors() {
	s.addPage(1, 1,
		gmPost(10, []models.Heading{h2("Día 1")}, []string{"Alice"}),
		models.Post{ID: 11, Author: "alice", Headings: []models.Heading{h2("Final del día 1")}},
	)

	detection, err := s.detector.Detect(context.Background())

	s.Require().NoError(err)
	s.Equal(models.PhaseDay, detection.Phase)
	s.Equal(10, detection.Marker.PostID)
}

func (s *DetectorTestSuite) TestDetect_FetchError() {
	ctrl := gomock.NewController(s.T())
	reader := mocks.NewMockReader(ctrl)
	reader.EXPECT().FetchUserPage(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	detector, err := New(&Config{Reader: reader, GameMaster: "Narrador", Logger: slog.New(slog.DiscardHandler)})
	s.Require().NoError(err)

	_, err = detector.Detect(context.Background())
	s.Error(err)
}

func (s *DetectorTestSuite) TestMarkerIn() {
	tests := []struct {
		name     string
		headings []models.Heading
		want     Marker
		found    bool
	}{
		{name: "start", headings: []models.Heading{h2("Día 2")}, want: Marker{Kind: MarkerDayStart, DayNumber: 2, PostID: 7}, found: true},
		{name: "end", headings: []models.Heading{h2("Final del día 2")}, want: Marker{Kind: MarkerDayEnd, DayNumber: 2, PostID: 7}, found: true},
		{name: "end wins in same post", headings: []models.Heading{h2("Día 3"), h2("Final del día 2")}, want: Marker{Kind: MarkerDayEnd, DayNumber: 2, PostID: 7}, found: true},
		{name: "decomposed accent", headings: []models.Heading{models.NewHeading(2, "Di\u0301a 4")}, want: Marker{Kind: MarkerDayStart, DayNumber: 4, PostID: 7}, found: true},
		{name: "wrong level", headings: []models.Heading{models.NewHeading(4, "Día 2")}},
		{name: "extra text", headings: []models.Heading{h2("Día 2 y medio")}},
		{name: "lowercase", headings: []models.Heading{h2("día 2")}},
		{name: "none"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			marker, ok := s.detector.MarkerIn(models.Post{ID: 7, Headings: tt.headings})
			s.Equal(tt.found, ok)
			s.Equal(tt.want, marker)
		})
	}
}

func (s *DetectorTestSuite) TestMarkerIn_ConfiguredLevel() {
	detector, err := New(&Config{Reader: s.reader, GameMaster: "Narrador", MarkerHeadingLevel: 3})
	s.Require().NoError(err)

	_, ok := detector.MarkerIn(models.Post{ID: 1, Headings: []models.Heading{h2("Día 1")}})
	s.False(ok)

	marker, ok := detector.MarkerIn(models.Post{ID: 1, Headings: []models.Heading{models.NewHeading(3, "Día 1")}})
	s.True(ok)
	s.Equal(1, marker.DayNumber)
}

func (s *DetectorTestSuite) TestRosterOf_SkipsRepeatedPlayers() {
	post := gmPost(100, []models.Heading{h2("Día 2")},
		[]string{"Alice", "Bob", "Carol", "BOB", "Dave", " ", "Erin"})

	roster := RosterOf(post)

	s.Equal([]models.PlayerID{"alice", "bob", "carol", "dave", "erin"}, roster)
}
