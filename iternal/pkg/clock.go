package pkg

import "time"

// Clock нужен чтобы в тестах можно было подменять время (куллдаун, протухание токенов)
type Clock interface {
	Now() time.Time
}

type NormalClock struct{}

func (NormalClock) Now() time.Time {
	return time.Now()
}
