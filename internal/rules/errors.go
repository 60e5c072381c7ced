package rules

// Errors — отображение "поле → сообщение" с сохранением порядка добавления.
// Порядок значим: однострочный UI показывает первое сообщение.
type Errors struct {
	order  []string
	fields map[string]string
}

// NewErrors создаёт пустой набор ошибок.
func NewErrors() *Errors {
	return &Errors{fields: make(map[string]string)}
}

// Add добавляет сообщение для поля. Повторное добавление того же поля
// не меняет его позицию, но обновляет текст.
func (e *Errors) Add(field, message string) {
	if _, ok := e.fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.fields[field] = message
}

// Get возвращает сообщение для поля или пустую строку.
func (e *Errors) Get(field string) string {
	return e.fields[field]
}

// First возвращает первое по порядку добавления сообщение
// или пустую строку, если ошибок нет.
func (e *Errors) First() string {
	if len(e.order) == 0 {
		return ""
	}
	return e.fields[e.order[0]]
}

// Fields возвращает имена полей в порядке добавления.
func (e *Errors) Fields() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// IsEmpty сообщает, пуст ли набор. Пустой набор означает валидную форму.
func (e *Errors) IsEmpty() bool {
	return len(e.order) == 0
}

// Len возвращает число полей с ошибками.
func (e *Errors) Len() int {
	return len(e.order)
}

// ToMap возвращает копию отображения для сериализации в JSON-ответе.
func (e *Errors) ToMap() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}
