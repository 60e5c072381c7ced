package config

// Resolve возвращает первое непустое значение в фиксированном порядке
// приоритета: явно заданное значение, затем значения из lookup по именам
// primary и fallbacks, затем def. Порядок источников зафиксирован и не
// зависит от окружения, поэтому функция тестируется без реальных env-переменных.
func Resolve(explicit string, lookup func(string) (string, bool), primary string, fallbacks []string, def string) string {
	if explicit != "" {
		return explicit
	}
	if lookup != nil {
		if v, ok := lookup(primary); ok && v != "" {
			return v
		}
		for _, name := range fallbacks {
			if v, ok := lookup(name); ok && v != "" {
				return v
			}
		}
	}
	return def
}
