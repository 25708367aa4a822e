package commands

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrExpireOffersCommandIsNotConstructed = errors.New(
	"ExpireOffersCommand must be created via NewExpireOffersCommand constructor",
)

// ExpireOffersCommand times out every pending offer whose deadline has passed.
// It backs up the awaiting cascade for offers whose cascade process died.
type ExpireOffersCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireOffersCommand() ExpireOffersCommand {
	return ExpireOffersCommand{guard: guard.NewConstructorGuard()}
}

func (c ExpireOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireOffersCommandIsNotConstructed)
}
