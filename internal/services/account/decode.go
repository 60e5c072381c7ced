package account

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// DeletionOutcome — нормализованный результат ответа на удаление.
type DeletionOutcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

var successMessageRe = regexp.MustCompile(`(?i)deleted|success|done|removed`)

// DecodeDeletionResponse нормализует ответ стороннего сервиса удаления.
// Исторически накопившиеся формы успеха пробуются по порядку, побеждает
// первая подошедшая:
//
//  1. пустое тело или JSON null;
//  2. строка "ok";
//  3. объект {"status": "ok"} (регистр значения не важен);
//  4. объект {"success": true};
//  5. объект {"message": ...}, где текст похож на подтверждение удаления.
//
// Всё остальное — неуспех, даже если транспортный уровень ответил 200.
func DecodeDeletionResponse(body []byte) DeletionOutcome {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return DeletionOutcome{OK: true}
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		if strings.EqualFold(asString, "ok") {
			return DeletionOutcome{OK: true}
		}
		return DeletionOutcome{OK: false, Message: asString}
	}

	var asObject struct {
		Status  *string `json:"status"`
		Success *bool   `json:"success"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &asObject); err != nil {
		return DeletionOutcome{OK: false}
	}

	if asObject.Status != nil && strings.EqualFold(*asObject.Status, "ok") {
		return DeletionOutcome{OK: true}
	}
	if asObject.Success != nil && *asObject.Success {
		return DeletionOutcome{OK: true}
	}
	if asObject.Message != nil {
		if successMessageRe.MatchString(*asObject.Message) {
			return DeletionOutcome{OK: true, Message: *asObject.Message}
		}
		return DeletionOutcome{OK: false, Message: *asObject.Message}
	}
	return DeletionOutcome{OK: false}
}
