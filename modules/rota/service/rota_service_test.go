package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupLinkDefaultBase(t *testing.T) {
	svc := &RotaService{}

	link := svc.signupLink("V1StGXR8_Z5jdHi6B-myT")
	assert.Equal(t, "http://localhost:7070/signup/rota/V1StGXR8_Z5jdHi6B-myT", link)
}
