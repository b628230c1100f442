package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidPayload = errors.New("invalid payload")

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// validator.Validate кэширует разбор тегов и безопасен для конкурентного использования
var packetValidator = validator.New()

func validateStruct(v any) error {
	if err := packetValidator.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func (p RoomPayload) Validate() error {
	return validateStruct(p)
}

// Validate проверяет только адресата: в режиме ретрансляции клетки хода
// пересылаются сопернику как есть.
func (p MovePayload) Validate() error {
	if err := packetValidator.StructPartial(p, "RoomID"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// ValidateSquares - полная проверка клеток хода для strict-режима.
func (p MovePayload) ValidateSquares() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.MoveFrom == p.MoveTo {
		return fmt.Errorf("%w: moveFrom equals moveTo", ErrInvalidPayload)
	}
	return nil
}
