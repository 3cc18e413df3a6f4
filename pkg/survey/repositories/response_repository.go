package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const tableName = "responses"

// ResponseRepository is the storage contract shared by the local and the
// remote backends.
type ResponseRepository interface {
	Insert(ctx context.Context, rec models.ResponseRecord) error
	FetchRecent(ctx context.Context, limit int) ([]models.RecentResponse, error)
	// Backend names the storage for logs and status output.
	Backend() string
}

// responseRow is the persisted shape of a ResponseRecord.
type responseRow struct {
	ID               string         `gorm:"column:id;primaryKey"`
	Created          string         `gorm:"column:created_at;index"`
	AgeGroup         string         `gorm:"column:age_group"`
	Gender           string         `gorm:"column:gender"`
	Education        string         `gorm:"column:education"`
	PoliticalLeaning string         `gorm:"column:political_leaning"`
	IncomeBracket    string         `gorm:"column:income_bracket"`
	Prompt           string         `gorm:"column:prompt"`
	ImageData        string         `gorm:"column:image_data"`
	LikeScore        int            `gorm:"column:like_score"`
	CredibilityScore int            `gorm:"column:credibility_score"`
	Comment          string         `gorm:"column:comment"`
	ExtrasJSON       datatypes.JSON `gorm:"column:extras_json;type:text"`
}

func (responseRow) TableName() string { return tableName }

// recentRow is the projection read back by FetchRecent on both backends.
type recentRow struct {
	ID               string `gorm:"column:id" json:"id"`
	Created          string `gorm:"column:created_at" json:"created_at"`
	AgeGroup         string `gorm:"column:age_group" json:"age_group"`
	Gender           string `gorm:"column:gender" json:"gender"`
	Education        string `gorm:"column:education" json:"education"`
	PoliticalLeaning string `gorm:"column:political_leaning" json:"political_leaning"`
	IncomeBracket    string `gorm:"column:income_bracket" json:"income_bracket"`
	LikeScore        int    `gorm:"column:like_score" json:"like_score"`
	CredibilityScore int    `gorm:"column:credibility_score" json:"credibility_score"`
}

func marshalExtras(extras map[string]any) ([]byte, error) {
	if extras == nil {
		extras = map[string]any{}
	}
	b, err := json.Marshal(extras)
	if err != nil {
		return nil, fmt.Errorf("encode extras: %w", err)
	}
	return b, nil
}

func toRow(rec models.ResponseRecord) (responseRow, error) {
	extras, err := marshalExtras(rec.Extras)
	if err != nil {
		return responseRow{}, err
	}
	return responseRow{
		ID:               rec.ID,
		Created:          models.FormatTimestamp(rec.CreatedAt),
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
		ExtrasJSON:       datatypes.JSON(extras),
	}, nil
}

func (r recentRow) toModel() (models.RecentResponse, error) {
	created, err := models.ParseTimestamp(r.Created)
	if err != nil {
		return models.RecentResponse{}, fmt.Errorf("response %s: bad created_at %q: %w", r.ID, r.Created, err)
	}
	return models.RecentResponse{
		ID:               r.ID,
		CreatedAt:        created,
		AgeGroup:         r.AgeGroup,
		Gender:           r.Gender,
		Education:        r.Education,
		PoliticalLeaning: r.PoliticalLeaning,
		IncomeBracket:    r.IncomeBracket,
		LikeScore:        r.LikeScore,
		CredibilityScore: r.CredibilityScore,
	}, nil
}

func toModels(rows []recentRow) ([]models.RecentResponse, error) {
	out := make([]models.RecentResponse, 0, len(rows))
	for _, row := range rows {
		m, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// sqlRepository stores responses through gorm. The local flavour migrates
// its schema lazily and serializes writes; the Postgres flavour does neither.
type sqlRepository struct {
	db      *gorm.DB
	backend string

	writeMu  *sync.Mutex
	migrate  bool
	schemaMu sync.Mutex
	ready    bool
}

// NewLocalRepository returns the embedded SQLite backend. The responses table
// is created on first use.
func NewLocalRepository(db *gorm.DB) ResponseRepository {
	return &sqlRepository{db: db, backend: "sqlite", writeMu: &sync.Mutex{}, migrate: true}
}

// NewPostgresRepository returns a remote backend over a direct Postgres
// connection. The responses table must already exist.
func NewPostgresRepository(db *gorm.DB) ResponseRepository {
	return &sqlRepository{db: db, backend: "postgres"}
}

func (r *sqlRepository) Backend() string { return r.backend }

func (r *sqlRepository) ensureSchema(ctx context.Context) error {
	if !r.migrate {
		return nil
	}
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()
	if r.ready {
		return nil
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&responseRow{}); err != nil {
		return fmt.Errorf("create %s table: %w", tableName, err)
	}
	r.ready = true
	return nil
}

func (r *sqlRepository) Insert(ctx context.Context, rec models.ResponseRecord) error {
	row, err := toRow(rec)
	if err != nil {
		return writeError(r.backend, nil, err)
	}
	if err := r.ensureSchema(ctx); err != nil {
		return writeError(r.backend, nil, err)
	}
	if r.writeMu != nil {
		r.writeMu.Lock()
		defer r.writeMu.Unlock()
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return writeError(r.backend, nil, err)
	}
	return nil
}

func (r *sqlRepository) FetchRecent(ctx context.Context, limit int) ([]models.RecentResponse, error) {
	if limit <= 0 {
		return []models.RecentResponse{}, nil
	}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, readError(r.backend, nil, err)
	}

	var rows []recentRow
	err := r.db.WithContext(ctx).
		Table(tableName).
		Select(models.RecentColumns).
		Order("created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, readError(r.backend, nil, err)
	}
	out, err := toModels(rows)
	if err != nil {
		return nil, readError(r.backend, nil, err)
	}
	return out, nil
}
