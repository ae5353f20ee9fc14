package domain

import "errors"

// ErrProfileNotFound возвращается хранилищем, если профиль не обучался.
var ErrProfileNotFound = errors.New("профиль не найден")

// ErrDraftNotFound возвращается хранилищем, если черновика нет.
var ErrDraftNotFound = errors.New("черновик не найден")
