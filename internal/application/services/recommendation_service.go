package services

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Worker result bodies
const (
	BodyNoMessage       = "No message found in the queue."
	BodyMissingFields   = "Cuisine or email address missing in the message."
	BodyEmailFailed     = "Error in sending email."
	BodyFinished        = "Finished processing request."
	bodyNoRestaurantsFn = "No restaurants found for %s."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RecommendationOptions tunes the recommendation worker
type RecommendationOptions struct {
	// Count is the number of restaurants suggested per email
	Count int
	// SearchSize caps the hits fetched from the search index
	SearchSize int
	// MaxRedraws caps rejected samples per request; zero means only the
	// number of hits bounds the draw
	MaxRedraws int
	// CityMarker must appear in a restaurant address for it to be suggested
	CityMarker string
	Sender     string
	Subject    string
	Receive    providers.ReceiveOptions
}

// RecommendationService consumes one queued dining request per run, picks
// random in-city restaurants for the cuisine and emails them to the user.
type RecommendationService struct {
	queue   providers.MessageQueue
	search  repositories.RestaurantSearchRepository
	store   repositories.RestaurantRepository
	email   providers.EmailSender
	opts    RecommendationOptions
	metrics *observability.Metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRecommendationService creates a new recommendation worker. metrics may be nil.
func NewRecommendationService(
	queue providers.MessageQueue,
	search repositories.RestaurantSearchRepository,
	store repositories.RestaurantRepository,
	email providers.EmailSender,
	opts RecommendationOptions,
	metrics *observability.Metrics,
) *RecommendationService {
	if opts.Count <= 0 {
		opts.Count = 3
	}
	if opts.Receive.MaxMessages <= 0 {
		opts.Receive.MaxMessages = 1
	}
	return &RecommendationService{
		queue:   queue,
		search:  search,
		store:   store,
		email:   email,
		opts:    opts,
		metrics: metrics,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the random source used for sampling
func (s *RecommendationService) WithRand(rng *rand.Rand) *RecommendationService {
	s.rng = rng
	return s
}

// Process handles at most one queued request. The message is deleted as soon
// as its attributes are read, whatever happens afterwards. Queue, search and
// store failures are returned as errors; an email failure is reported in the
// result body.
func (s *RecommendationService) Process(ctx context.Context) (*entities.WorkerResult, error) {
	ctx, span := observability.StartSpan(ctx, "recommendation.process")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	messages, err := s.queue.Receive(ctx, s.opts.Receive)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if len(messages) == 0 {
		logger.Debug().Msg("no message in the queue")
		return result(BodyNoMessage), nil
	}

	msg := messages[0]
	request := entities.DiningRequestFromAttributes(msg.Attributes)

	if err := s.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if err := validate.Struct(request); err != nil {
		logger.Warn().Err(err).Str("message_id", msg.ID).Msg("dining request incomplete")
		return result(BodyMissingFields), nil
	}
	observability.SetSpanAttributes(span, attribute.String("dining.cuisine", request.Cuisine))

	hits, err := s.search.SearchByCuisine(ctx, request.Cuisine, s.opts.SearchSize)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	picks, err := s.Sample(ctx, request.Cuisine, hits)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if len(picks) == 0 {
		logger.Warn().Str("cuisine", request.Cuisine).Int("hits", len(hits)).Msg("no in-city restaurants found")
		return result(fmt.Sprintf(bodyNoRestaurantsFn, request.Cuisine)), nil
	}

	messageID, err := s.email.Send(ctx, providers.Email{
		From:    s.opts.Sender,
		To:      []string{request.Email},
		Subject: s.opts.Subject,
		Body:    ComposeSuggestionEmail(request, picks),
		Charset: "UTF-8",
	})
	observability.RecordEmail(ctx, s.metrics, request.Cuisine, err == nil)
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Str("message_id", msg.ID).Msg("failed to send suggestions email")
		return result(BodyEmailFailed), nil
	}

	logger.Info().
		Str("message_id", msg.ID).
		Str("email_id", messageID).
		Int("suggestions", len(picks)).
		Msg("suggestions email sent")
	return result(BodyFinished), nil
}

// Sample shuffles the hits and walks them in random order, fetching each
// record from the document store and keeping it only when its address
// contains the city marker. Each hit is tried at most once, so the walk ends
// when Count restaurants are found, the hits run out, or MaxRedraws samples
// have been rejected. Hits missing from the store count as rejections.
func (s *RecommendationService) Sample(ctx context.Context, cuisine string, hits []entities.SearchDocument) ([]*entities.Restaurant, error) {
	order := make([]entities.SearchDocument, len(hits))
	copy(order, hits)
	s.mu.Lock()
	s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	s.mu.Unlock()

	logger := observability.LoggerFromContext(ctx)
	picks := make([]*entities.Restaurant, 0, s.opts.Count)
	seen := make(map[string]struct{}, s.opts.Count)
	redraws := 0

	for _, hit := range order {
		if len(picks) == s.opts.Count {
			break
		}
		if s.opts.MaxRedraws > 0 && redraws >= s.opts.MaxRedraws {
			logger.Warn().Str("cuisine", cuisine).Int("redraws", redraws).Msg("redraw limit reached")
			break
		}
		if _, dup := seen[hit.ID]; dup {
			continue
		}
		seen[hit.ID] = struct{}{}

		restaurant, err := s.store.GetByID(ctx, hit.ID)
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			logger.Warn().Str("business_id", hit.ID).Msg("indexed restaurant missing from store")
			redraws++
			continue
		}
		if err != nil {
			return nil, err
		}

		if !restaurant.InCity(s.opts.CityMarker) {
			observability.RecordRedraw(ctx, s.metrics, cuisine)
			redraws++
			continue
		}
		picks = append(picks, restaurant)
	}

	return picks, nil
}

// ComposeSuggestionEmail renders the plain text suggestions email
func ComposeSuggestionEmail(request entities.DiningRequest, picks []*entities.Restaurant) string {
	entries := make([]string, len(picks))
	for i, r := range picks {
		entries[i] = fmt.Sprintf("%d. %s, located at %s", i+1, r.Name, r.Address)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello! Here are my %s restaurant suggestions for %s people, for %s at %s: ",
		request.Cuisine, request.NumberOfPeople, request.Date, request.Time)
	b.WriteString(strings.Join(entries, ", "))
	b.WriteString(". Enjoy your meal!")
	return b.String()
}

func result(body string) *entities.WorkerResult {
	return &entities.WorkerResult{StatusCode: http.StatusOK, Body: body}
}
