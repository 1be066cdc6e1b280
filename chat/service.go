// Package chat answers free-text movie requests. A message is classified by
// Wit.ai and the winning intent is turned into a short list of catalog movies.
package chat

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/catalog"
	"github.com/ryantanww/MovAI/logging"
)

// Intents the assistant understands.
const (
	IntentPopular       = "recommend_movie"
	IntentTopRated      = "recommend_top_rated_movie"
	IntentGenre         = "recommend_genre_movie"
	IntentDailyTrending = "recommend_daily_trending"
	IntentWeekly        = "recommend_weekly_trending"

	genreEntity = "genre:genre"
)

// maxReplies caps the movies returned for one message.
const maxReplies = 3

// suggestionCount is how many prompts Suggestions returns.
const suggestionCount = 5

const (
	replyUnknownGenre  = "I didn't catch the genre. Could you specify it again?"
	replyUnknownIntent = "I'm not sure how to help with that. Could you ask something else?"
	replyNoMovies      = "I couldn't find any movies right now. Please try again later."
	msgEmptyMessage    = "A message is required!"
	msgAssistantFailed = "Failed to reach the assistant!"
)

// genreIDs maps lower-cased genre names to catalog genre ids.
var genreIDs = map[string]int{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"science fiction": 878,
	"tv movie":        10770,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}

// prompts are the canned suggestions offered to the user.
var prompts = []string{
	"Show me popular movies",
	"What are the top-rated movies?",
	"Find me some action movies.",
	"What are the trending movies today?",
	"Recommend me a comedy movie.",
	"I want to watch a horror film.",
	"Suggest a drama movie.",
	"Show me some sci-fi movies.",
	"What's trending this week?",
	"Find me a romantic movie.",
}

// Reply is one line of the assistant's answer. MovieID is set when the line
// names a movie the client can open.
type Reply struct {
	Text    string `json:"text"`
	MovieID int64  `json:"movieId,omitempty"`
}

// ChatService maps messages to replies.
type ChatService struct {
	interpreter Interpreter
	catalog     catalog.Catalog
	log         logging.Logger
	// perm returns a random permutation of [0, n). Replaced in tests.
	perm func(n int) []int
}

// NewChatService creates a ChatService that classifies messages with
// interpreter and looks movies up in cat.
func NewChatService(interpreter Interpreter, cat catalog.Catalog, log logging.Logger) *ChatService {
	return &ChatService{
		interpreter: interpreter,
		catalog:     cat,
		log:         log.With("component", "chat"),
		perm:        rand.Perm,
	}
}

// Respond classifies message and answers it. Only a failure to classify is
// an error; catalog trouble degrades to a polite reply.
func (s *ChatService) Respond(ctx context.Context, message string) ([]Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.NewValidationError(msgEmptyMessage, nil)
	}

	u, err := s.interpreter.Interpret(ctx, message)
	if err != nil {
		return nil, apperror.NewExternalServiceError(msgAssistantFailed, err)
	}

	var movies []catalog.Movie
	intent := u.TopIntent()
	switch intent {
	case IntentPopular:
		movies, err = s.catalog.RandomPopular(ctx)
	case IntentTopRated:
		movies, err = s.catalog.RandomTopRated(ctx)
	case IntentGenre:
		genreID, ok := GenreID(u.Entities)
		if !ok {
			return []Reply{{Text: replyUnknownGenre}}, nil
		}
		movies, err = s.catalog.RandomByGenre(ctx, genreID)
	case IntentDailyTrending:
		movies, err = s.catalog.RandomTrending(ctx, catalog.WindowDay)
	case IntentWeekly:
		movies, err = s.catalog.RandomTrending(ctx, catalog.WindowWeek)
	default:
		return []Reply{{Text: replyUnknownIntent}}, nil
	}
	if err != nil {
		s.log.Warn(ctx, "catalog lookup for chat failed", "intent", intent, "error", err)
		return []Reply{{Text: replyNoMovies}}, nil
	}

	if len(movies) == 0 {
		return []Reply{{Text: replyNoMovies}}, nil
	}
	replies := make([]Reply, 0, maxReplies)
	for _, m := range movies[:min(len(movies), maxReplies)] {
		replies = append(replies, Reply{Text: "• " + m.Title, MovieID: m.ID})
	}
	return replies, nil
}

// GenreID resolves the first genre entity to a catalog genre id.
func GenreID(entities map[string][]Entity) (int, bool) {
	values := entities[genreEntity]
	if len(values) == 0 {
		return 0, false
	}
	id, ok := genreIDs[strings.ToLower(strings.TrimSpace(values[0].Value))]
	return id, ok
}

// Suggestions returns distinct prompts in random order.
func (s *ChatService) Suggestions() []string {
	out := make([]string, 0, suggestionCount)
	for _, i := range s.perm(len(prompts))[:suggestionCount] {
		out = append(out, prompts[i])
	}
	return out
}
