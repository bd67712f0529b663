package util

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateName 카테고리/태그 이름 검증 (공백 제외 1~64자)
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("이름을 입력하세요")
	}
	if len(name) > 64 {
		// 바이트 기준: 한글은 3바이트라 약 21자까지
		return fmt.Errorf("이름은 최대 64바이트입니다")
	}
	return nil
}

// ValidateColor 색상 코드 검증 (#rrggbb)
func ValidateColor(color string) error {
	if !hexColorRe.MatchString(color) {
		return fmt.Errorf("invalid color %q, want #rrggbb", color)
	}
	return nil
}

// ValidateYearMonth 연/월 범위 검증
func ValidateYearMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return fmt.Errorf("year out of range: %d", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month out of range: %d", month)
	}
	return nil
}
