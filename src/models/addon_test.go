package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddOnOptions(t *testing.T) {
	addOn := AddOn{
		Title:             "T-Shirt",
		UserSelectsOption: true,
		Options:           "S\nM\nL\nXL",
	}

	assert.Equal(t, []string{"S", "M", "L", "XL"}, addOn.OptionList())
	assert.True(t, addOn.HasOption("M"))
	assert.False(t, addOn.HasOption("XXL"))

	empty := AddOn{Title: "Lunch"}
	assert.Nil(t, empty.OptionList())
	assert.False(t, empty.HasOption("anything"))
}
