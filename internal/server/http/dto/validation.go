package dto

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

var registerOnce sync.Once

// RegisterValidators adds the orderstatus and blacklistintent tags to gin's
// validator. It is safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err = v.RegisterValidation("orderstatus", validOrderStatus); err != nil {
			return
		}
		err = v.RegisterValidation("blacklistintent", validBlacklistIntent)
	})
	return err
}

func validOrderStatus(fl validator.FieldLevel) bool {
	_, err := model.ParseOrderStatus(fl.Field().String())
	return err == nil
}

func validBlacklistIntent(fl validator.FieldLevel) bool {
	_, err := model.ParseBlacklistIntent(fl.Field().String())
	return err == nil
}
