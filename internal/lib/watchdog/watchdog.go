// Package watchdog реализует ограничитель времени для начальной загрузки
// сессии пользователя: если запрос не завершился за отведённое окно,
// приложение продолжает работу в неаутентифицированном состоянии,
// а не зависает на ожидании.
package watchdog

import (
	"context"
	"time"
)

// DefaultWindow — фиксированное окно ожидания начальной загрузки сессии.
const DefaultWindow = 3 * time.Second

// Await выполняет fetch и ждёт результата не дольше window.
// Если fetch успел завершиться — возвращается его результат и ok=true.
// По истечении окна или отмене контекста возвращается нулевое значение
// и ok=false: вызывающий продолжает как неаутентифицированный.
// Ошибка fetch тоже даёт нулевое значение и ok=false — это не terminal state.
func Await[T any](ctx context.Context, window time.Duration, fetch func(context.Context) (T, error)) (T, bool) {
	type outcome struct {
		value T
		err   error
	}

	fetchCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		v, err := fetch(fetchCtx)
		ch <- outcome{value: v, err: err}
	}()

	timer := time.NewTimer(window)
	defer timer.Stop()

	var zero T
	select {
	case out := <-ch:
		if out.err != nil {
			return zero, false
		}
		return out.value, true
	case <-timer.C:
		return zero, false
	case <-ctx.Done():
		return zero, false
	}
}
