package repositories

import (
	"context"
	"errors"
	"net/http"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/postgrest"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
)

const restBackend = "supabase"

var errRemoteRejected = errors.New("remote store rejected the request")

// restPayload is the JSON body sent to the remote table. extras_json is a
// string column, as in the local schema.
type restPayload struct {
	ID               string `json:"id"`
	CreatedAt        string `json:"created_at"`
	AgeGroup         string `json:"age_group"`
	Gender           string `json:"gender"`
	Education        string `json:"education"`
	PoliticalLeaning string `json:"political_leaning"`
	IncomeBracket    string `json:"income_bracket"`
	Prompt           string `json:"prompt"`
	ImageData        string `json:"image_data"`
	LikeScore        int    `json:"like_score"`
	CredibilityScore int    `json:"credibility_score"`
	Comment          string `json:"comment"`
	ExtrasJSON       string `json:"extras_json"`
}

// result is the single shape every remote response is reduced to.
type result struct {
	ok      bool
	payload any
}

// normalize checks the three ways the remote client reports failure, in
// priority order: an error object, a JSON mapping with "error" or
// "message", and finally the HTTP status.
func normalize(resp *postgrest.Response) result {
	if resp.Error != nil {
		return result{payload: resp.Error}
	}
	if m, ok := resp.Data.(map[string]any); ok {
		_, hasErr := m["error"]
		_, hasMsg := m["message"]
		if hasErr || hasMsg {
			return result{payload: m}
		}
	}
	if resp.Status >= http.StatusBadRequest {
		if resp.Data != nil {
			return result{payload: resp.Data}
		}
		return result{payload: string(resp.Body)}
	}
	return result{ok: true}
}

type restRepository struct {
	client *postgrest.Client
}

// NewRestRepository returns the remote backend over a PostgREST endpoint.
func NewRestRepository(client *postgrest.Client) ResponseRepository {
	return &restRepository{client: client}
}

func (r *restRepository) Backend() string { return restBackend }

// Ping issues a minimal read so a misconfigured or unreachable endpoint is
// noticed before the repository is put to use.
func (r *restRepository) Ping(ctx context.Context) error {
	resp, err := r.client.From(tableName).Select("id").Limit(1).Execute(ctx)
	if err != nil {
		return readError(restBackend, nil, err)
	}
	if res := normalize(resp); !res.ok {
		return readError(restBackend, res.payload, errRemoteRejected)
	}
	return nil
}

func (r *restRepository) Insert(ctx context.Context, rec models.ResponseRecord) error {
	extras, err := marshalExtras(rec.Extras)
	if err != nil {
		return writeError(restBackend, nil, err)
	}
	payload := restPayload{
		ID:               rec.ID,
		CreatedAt:        models.FormatTimestamp(rec.CreatedAt),
		AgeGroup:         rec.AgeGroup,
		Gender:           rec.Gender,
		Education:        rec.Education,
		PoliticalLeaning: rec.PoliticalLeaning,
		IncomeBracket:    rec.IncomeBracket,
		Prompt:           rec.Prompt,
		ImageData:        rec.ImageData,
		LikeScore:        rec.LikeScore,
		CredibilityScore: rec.CredibilityScore,
		Comment:          rec.Comment,
		ExtrasJSON:       string(extras),
	}

	resp, err := r.client.From(tableName).Insert(payload).Execute(ctx)
	if err != nil {
		return writeError(restBackend, nil, err)
	}
	if res := normalize(resp); !res.ok {
		return writeError(restBackend, res.payload, errRemoteRejected)
	}
	return nil
}

func (r *restRepository) FetchRecent(ctx context.Context, limit int) ([]models.RecentResponse, error) {
	if limit <= 0 {
		return []models.RecentResponse{}, nil
	}
	resp, err := r.client.From(tableName).
		Select(models.RecentColumns...).
		Order("created_at", true).
		Limit(limit).
		Execute(ctx)
	if err != nil {
		return nil, readError(restBackend, nil, err)
	}
	if res := normalize(resp); !res.ok {
		return nil, readError(restBackend, res.payload, errRemoteRejected)
	}

	var rows []recentRow
	if err := resp.Decode(&rows); err != nil {
		return nil, readError(restBackend, string(resp.Body), err)
	}
	out, err := toModels(rows)
	if err != nil {
		return nil, readError(restBackend, nil, err)
	}
	return out, nil
}
