package service

import (
	"time"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
)

const dateLayout = "2006-01-02"

func validateOwner(ownerID int64) error {
	if ownerID <= 0 {
		return apperrors.InvalidArgumentf("owner_id 必须为正数: %d", ownerID)
	}
	return nil
}

// normalizeDate 校验 YYYY-MM-DD，空串取 now 所在日期
func normalizeDate(date string, now time.Time) (string, error) {
	if date == "" {
		return now.Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", apperrors.InvalidArgumentf("日期格式应为 YYYY-MM-DD: %q", date)
	}
	return date, nil
}
