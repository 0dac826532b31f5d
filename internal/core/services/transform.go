package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
	"github.com/custodia-labs/ytengage/internal/core/ports/driving"
	"github.com/custodia-labs/ytengage/internal/logger"
)

// Ensure TransformService implements the interface.
var _ driving.Transformer = (*TransformService)(nil)

// Column names read from the videos table.
const (
	colVideoID      = "video_id"
	colCategoryID   = "category_id"
	colLikes        = "likes"
	colDislikes     = "dislikes"
	colCommentCount = "comment_count"
)

// Column names written to the engagement table.
const (
	colCategoryName    = "category_name"
	colEngagementScore = "engagement_score"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// TransformService joins videos to category names and aggregates engagement.
type TransformService struct {
	cfg     domain.PipelineConfig
	metrics driven.MetricsRecorder
}

// NewTransformService creates a new transform service.
// metrics is optional - if nil, measurements are discarded.
func NewTransformService(cfg domain.PipelineConfig, metrics driven.MetricsRecorder) *TransformService {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &TransformService{cfg: cfg, metrics: metrics}
}

// Transform builds the engagement table from the extracted files, writes it
// to the processed directory and returns it.
func (s *TransformService) Transform(_ context.Context) (domain.EngagementTable, error) {
	start := time.Now()
	table, err := s.transform()
	s.metrics.ObserveStage("transform", time.Since(start), err)
	return table, err
}

func (s *TransformService) transform() (domain.EngagementTable, error) {
	videos, err := BuildVideos(s.cfg.VideosPath(), s.cfg.CategoriesPath())
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded %d videos", len(videos))

	table := Aggregate(videos, s.cfg.Transform.UnmappedLabel)
	logger.Info("Aggregated %d categories", len(table))

	if err := WriteTable(s.cfg.OutputPath(), table); err != nil {
		return nil, err
	}
	logger.Info("Wrote %s", s.cfg.OutputPath())
	return table, nil
}

// Load reads the persisted engagement table.
func (s *TransformService) Load(_ context.Context) (domain.EngagementTable, error) {
	return ReadTable(s.cfg.OutputPath())
}

// BuildVideos loads both input files and fills every derived column.
func BuildVideos(videosPath, categoriesPath string) ([]domain.Video, error) {
	videos, err := LoadVideos(videosPath)
	if err != nil {
		return nil, err
	}
	lookup, err := LoadCategories(categoriesPath)
	if err != nil {
		return nil, err
	}
	Enrich(videos, lookup)
	return videos, nil
}

// LoadVideos reads the videos table. Only the columns the aggregate needs are
// parsed; every other column is ignored.
func LoadVideos(path string) ([]domain.Video, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open videos: %w", domain.ErrTransform, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read videos header: %w", domain.ErrTransform, err)
	}
	index, err := columnIndex(header, colCategoryID, colLikes, colDislikes, colCommentCount)
	if err != nil {
		return nil, err
	}
	idCol, hasID := index[colVideoID]

	var videos []domain.Video
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse videos: %w", domain.ErrTransform, err)
		}

		var v domain.Video
		if hasID {
			v.ID = record[idCol]
		}
		category, err := parseInt(record, index, colCategoryID, line)
		if err != nil {
			return nil, err
		}
		v.CategoryID = int(category)
		if v.Likes, err = parseInt(record, index, colLikes, line); err != nil {
			return nil, err
		}
		if v.Dislikes, err = parseInt(record, index, colDislikes, line); err != nil {
			return nil, err
		}
		if v.CommentCount, err = parseInt(record, index, colCommentCount, line); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// columnIndex maps header names to positions and checks required columns.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		index[strings.TrimSpace(name)] = i
	}

	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: videos table has no %q column", domain.ErrTransform, name)
		}
	}
	return index, nil
}

func parseInt(record []string, index map[string]int, column string, line int) (int64, error) {
	raw := strings.TrimSpace(record[index[column]])
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: column %s: %w", domain.ErrTransform, line, column, err)
	}
	return n, nil
}

// categoryFile mirrors the category lookup document.
type categoryFile struct {
	Items *[]categoryItem `json:"items"`
}

type categoryItem struct {
	ID      json.Number `json:"id"`
	Snippet *struct {
		Title *string `json:"title"`
	} `json:"snippet"`
}

// LoadCategories reads the category lookup file. Ids may be JSON strings or
// numbers but must hold integers.
func LoadCategories(path string) (domain.CategoryLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read categories: %w", domain.ErrTransform, err)
	}

	var doc categoryFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode categories: %w", domain.ErrTransform, err)
	}
	if doc.Items == nil {
		return nil, fmt.Errorf("%w: categories missing key %q", domain.ErrTransform, "items")
	}

	lookup := make(domain.CategoryLookup, len(*doc.Items))
	for i, item := range *doc.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: category %d missing key %q", domain.ErrTransform, i, "id")
		}
		if item.Snippet == nil || item.Snippet.Title == nil {
			return nil, fmt.Errorf("%w: category %d missing key %q", domain.ErrTransform, i, "snippet.title")
		}
		id, err := strconv.Atoi(item.ID.String())
		if err != nil {
			return nil, fmt.Errorf("%w: category %d id %q: %w", domain.ErrTransform, i, item.ID, err)
		}
		lookup[id] = *item.Snippet.Title
	}
	return lookup, nil
}

// Enrich fills CategoryName, EngagementScore and RatingRatio on every video.
func Enrich(videos []domain.Video, lookup domain.CategoryLookup) {
	for i := range videos {
		v := &videos[i]
		v.CategoryName = lookup.Name(v.CategoryID)
		v.EngagementScore = domain.EngagementScore(v.Likes, v.Dislikes, v.CommentCount)
		v.RatingRatio = domain.RatingRatio(v.Likes, v.Dislikes)
	}
}

// Aggregate groups videos by category name and averages their engagement.
// Videos without a category name are grouped under unmappedLabel, or left out
// when it is empty. The result is sorted descending by score.
func Aggregate(videos []domain.Video, unmappedLabel string) domain.EngagementTable {
	type group struct {
		sum   float64
		count int
	}

	groups := make(map[string]*group)
	var order []string
	for _, v := range videos {
		name := v.CategoryName
		if name == "" {
			if unmappedLabel == "" {
				continue
			}
			name = unmappedLabel
		}
		g, ok := groups[name]
		if !ok {
			g = &group{}
			groups[name] = g
			order = append(order, name)
		}
		g.sum += float64(v.EngagementScore)
		g.count++
	}

	table := make(domain.EngagementTable, 0, len(order))
	for _, name := range order {
		g := groups[name]
		table = append(table, domain.CategoryEngagement{
			CategoryName:    name,
			EngagementScore: g.sum / float64(g.count),
		})
	}
	table.SortDescending()
	return table
}

// WriteTable writes the engagement table as CSV with a header row,
// replacing any existing file at path.
func WriteTable(path string, table domain.EngagementTable) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create processed directory: %w", domain.ErrTransform, err)
	}

	tmp, err := os.CreateTemp(dir, ".engagement-*.csv")
	if err != nil {
		return fmt.Errorf("%w: create output: %w", domain.ErrTransform, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{colCategoryName, colEngagementScore}); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write output: %w", domain.ErrTransform, err)
	}
	for _, row := range table {
		score := strconv.FormatFloat(row.EngagementScore, 'f', -1, 64)
		if err := w.Write([]string{row.CategoryName, score}); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: write output: %w", domain.ErrTransform, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write output: %w", domain.ErrTransform, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: write output: %w", domain.ErrTransform, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: replace output: %w", domain.ErrTransform, err)
	}
	return nil
}

// ReadTable reads an engagement table written by WriteTable.
func ReadTable(path string) (domain.EngagementTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open engagement table: %w", domain.ErrTransform, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse engagement table: %w", domain.ErrTransform, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: engagement table is empty", domain.ErrTransform)
	}

	index, err := tableIndex(records[0])
	if err != nil {
		return nil, err
	}

	table := make(domain.EngagementTable, 0, len(records)-1)
	for i, record := range records[1:] {
		score, err := strconv.ParseFloat(strings.TrimSpace(record[index[colEngagementScore]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: engagement table line %d: %w", domain.ErrTransform, i+2, err)
		}
		table = append(table, domain.CategoryEngagement{
			CategoryName:    record[index[colCategoryName]],
			EngagementScore: score,
		})
	}
	return table, nil
}

func tableIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))] = i
	}
	for _, name := range []string{colCategoryName, colEngagementScore} {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: engagement table has no %q column", domain.ErrTransform, name)
		}
	}
	return index, nil
}
