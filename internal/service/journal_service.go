package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/schema"
)

const (
	maxJournalTags   = 20
	maxJournalTagLen = 30
	maxMediaLen      = 500
)

// JournalInput 日记内容
type JournalInput struct {
	Text  string   `json:"text"`
	Mood  string   `json:"mood"`
	Tags  []string `json:"tags"`
	Media string   `json:"media"`
}

// JournalService 日记服务
type JournalService struct {
	repo JournalRepository
	now  func() time.Time
}

// NewJournalService 创建日记服务
func NewJournalService(repo JournalRepository) *JournalService {
	return &JournalService{repo: repo, now: time.Now}
}

// Put 写入某天的日记（覆盖已有内容）
func (s *JournalService) Put(ctx context.Context, ownerID int64, date string, in JournalInput) (*schema.JournalEntry, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	date, err := normalizeDate(date, s.now())
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	media := strings.TrimSpace(in.Media)
	if text == "" && media == "" {
		return nil, apperrors.InvalidArgument("text 与 media 不能同时为空")
	}
	if utf8.RuneCountInString(in.Mood) > 1 {
		return nil, apperrors.InvalidArgument("mood 最多一个字符")
	}
	if len(media) > maxMediaLen {
		return nil, apperrors.InvalidArgumentf("media 长度不能超过 %d", maxMediaLen)
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	return s.repo.Upsert(ctx, &schema.JournalEntry{
		OwnerID: ownerID,
		Date:    date,
		Text:    text,
		Mood:    in.Mood,
		Tags:    tags,
		Media:   media,
	})
}

// Get 获取某天的日记
func (s *JournalService) Get(ctx context.Context, ownerID int64, date string) (*schema.JournalEntry, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	date, err := normalizeDate(date, s.now())
	if err != nil {
		return nil, err
	}
	return s.repo.GetByDate(ctx, ownerID, date)
}

// List 按日期倒序列出日记
func (s *JournalService) List(ctx context.Context, ownerID int64, limit int) ([]schema.JournalEntry, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, apperrors.InvalidArgumentf("limit 不能为负数: %d", limit)
	}
	return s.repo.ListByOwner(ctx, ownerID, limit)
}

// Delete 删除某天的日记
func (s *JournalService) Delete(ctx context.Context, ownerID int64, date string) error {
	if err := validateOwner(ownerID); err != nil {
		return err
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return apperrors.InvalidArgumentf("日期格式应为 YYYY-MM-DD: %q", date)
	}
	return s.repo.Delete(ctx, ownerID, date)
}

// normalizeTags 去空白、去重，保持原顺序
func normalizeTags(tags []string) (schema.JSONArray, error) {
	out := make(schema.JSONArray, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > maxJournalTagLen {
			return nil, apperrors.InvalidArgumentf("标签长度不能超过 %d: %q", maxJournalTagLen, tag)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > maxJournalTags {
		return nil, apperrors.InvalidArgumentf("标签数量不能超过 %d", maxJournalTags)
	}
	return out, nil
}
