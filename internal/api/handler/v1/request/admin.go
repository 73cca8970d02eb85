package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type EnsureNetworkRequest struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

func (req *EnsureNetworkRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.City, validation.Length(0, 100)),
		validation.Field(&req.Address, validation.Length(0, 200)),
	)
}

type SetPlanRequest struct {
	Network string `json:"network"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Qty     int    `json:"qty"`
}

func (req *SetPlanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Network, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Year, validation.Required, validation.Min(2000), validation.Max(2100)),
		validation.Field(&req.Month, validation.Required, validation.Min(1), validation.Max(12)),
		validation.Field(&req.Qty, validation.Required, validation.Min(1)),
	)
}

type CreateProductRequest struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

func (req *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}

type AddAliasRequest struct {
	Alias string `json:"alias"`
}

func (req *AddAliasRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Alias, validation.Required, validation.Length(2, 100)),
	)
}
