package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

type ImportOptions struct {
	// Clear 导入前删除全部食材及其菜谱用量
	Clear bool
}

// ImportReport 导入结果统计
type ImportReport struct {
	Created int   `json:"created"`
	Skipped int   `json:"skipped"`
	Failed  int   `json:"failed"`
	Cleared int64 `json:"cleared"`
}

func (r ImportReport) String() string {
	return fmt.Sprintf("created=%d skipped=%d failed=%d", r.Created, r.Skipped, r.Failed)
}

// Importer 从 CSV 批量装载目录数据；单行失败只记日志，不中断批次
type Importer struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	cache       cache.Catalog
}

func NewImporter(tags repository.TagRepository, ingredients repository.IngredientRepository, c cache.Catalog) *Importer {
	if c == nil {
		c = cache.Passthrough{}
	}
	return &Importer{tags: tags, ingredients: ingredients, cache: c}
}

// ImportIngredients 每行 name,measurement_unit
func (im *Importer) ImportIngredients(ctx context.Context, r io.Reader, opts ImportOptions) (ImportReport, error) {
	var report ImportReport
	if opts.Clear {
		n, err := im.ingredients.DeleteAll(ctx)
		if err != nil {
			return report, fmt.Errorf("clear ingredients: %w", err)
		}
		report.Cleared = n
		logger.Info("ingredients cleared", zap.Int64("deleted", n))
	}
	err := im.load(ctx, r, "measurement_unit", &report, im.ingredients.GetOrCreate)
	return report, err
}

// ImportTags 每行 name,slug
func (im *Importer) ImportTags(ctx context.Context, r io.Reader) (ImportReport, error) {
	var report ImportReport
	err := im.load(ctx, r, "slug", &report, im.tags.GetOrCreate)
	return report, err
}

func (im *Importer) load(
	ctx context.Context,
	r io.Reader,
	secondColumn string,
	report *ImportReport,
	getOrCreate func(ctx context.Context, a, b string) (bool, error),
) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("import: malformed row", zap.Int("line", perr.StartLine), zap.Error(err))
				report.Failed++
				first = false
				continue
			}
			return err
		}
		// 引号内的换行会让记录跨多行，按文件行号记录
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if isHeader(record, secondColumn) {
				continue
			}
		}
		if len(record) != 2 {
			logger.Warn("import: wrong column count", zap.Int("line", line), zap.Int("columns", len(record)))
			report.Failed++
			continue
		}
		a, b := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if a == "" || b == "" {
			logger.Warn("import: empty field", zap.Int("line", line))
			report.Failed++
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		created, err := getOrCreate(ctx, a, b)
		switch {
		case err != nil:
			logger.Error("import: row failed", zap.Int("line", line), zap.String("name", a), zap.Error(err))
			report.Failed++
		case created:
			report.Created++
		default:
			logger.Debug("import: already exists", zap.Int("line", line), zap.String("name", a))
			report.Skipped++
		}
	}

	if err := im.cache.Invalidate(ctx); err != nil {
		logger.Warn("import: catalog cache invalidation failed", zap.Error(err))
	}
	logger.Info("import finished",
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return nil
}

func isHeader(record []string, secondColumn string) bool {
	return len(record) == 2 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "name") &&
		strings.EqualFold(strings.TrimSpace(record[1]), secondColumn)
}
