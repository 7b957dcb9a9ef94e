package models

import "time"

// ContentType — вид сгенерированного артефакта.
type ContentType string

const (
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
)

// Valid сообщает, поддерживается ли тип.
func (t ContentType) Valid() bool {
	return t == ContentImage || t == ContentVideo
}

// TitleMaxRunes — длина заголовка, вырезаемого из описания.
const TitleMaxRunes = 100

// Content — запись галереи. Каждая строка также расходует одну единицу дневной квоты.
type Content struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         *string     `json:"url"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// GenerateRequest — тело запроса генерации.
type GenerateRequest struct {
	UserID      int64       `json:"userId" validate:"required,gt=0"`
	Type        ContentType `json:"type" validate:"required,oneof=image video"`
	Description string      `json:"description" validate:"required,min=3,max=500"`
}

// TitleFrom возвращает первые TitleMaxRunes символов описания.
func TitleFrom(description string) string {
	r := []rune(description)
	if len(r) <= TitleMaxRunes {
		return description
	}
	return string(r[:TitleMaxRunes])
}
