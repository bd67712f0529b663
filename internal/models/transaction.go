package models

import "time"

// Transaction 표는 명세서에서 파싱된 거래 한 건
// 금액은 원 단위 정수로 저장 (KRW는 소수점이 없음)
type Transaction struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	UserID       uint     `gorm:"index:idx_tx_user_date;not null" json:"-"`
	Date         string   `gorm:"size:8;index:idx_tx_user_date;not null" json:"date"` // YYYYMMDD
	ReceiptDate  *string  `gorm:"size:8" json:"receipt_date"`
	Merchant     string   `gorm:"size:128;not null" json:"merchant"`
	BusinessType *string  `gorm:"size:64" json:"business_type"`
	Country      *string  `gorm:"size:32" json:"country"`
	LocalAmount  *float64 `json:"local_amount"`
	Currency     string   `gorm:"size:8" json:"currency"`
	UsdAmount    *float64 `json:"usd_amount"`
	ExchangeRate *float64 `json:"exchange_rate"`
	KrwAmount    int64    `gorm:"not null" json:"krw_amount"`
	Fee          int64    `gorm:"not null;default:0" json:"fee"`
	BilledAmount int64    `gorm:"not null" json:"billed_amount"` // 환불/취소는 음수
	IsOverseas   bool     `gorm:"index;not null;default:false" json:"is_overseas"`
	CategoryID   *uint    `gorm:"index" json:"category_id"`
	CreatedAt    time.Time `json:"created_at"`

	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Memo     *Memo     `gorm:"constraint:OnDelete:CASCADE" json:"memo,omitempty"`
	Tags     []Tag     `gorm:"many2many:transaction_tags;constraint:OnDelete:CASCADE" json:"tags"`
}
