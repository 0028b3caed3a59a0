package validation

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validGeo() *dto.GeolocationInput {
	return &dto.GeolocationInput{
		IP:       strPtr("8.8.8.8"),
		City:     strPtr("Mountain View"),
		Region:   strPtr("California"),
		Country:  strPtr("US"),
		Loc:      strPtr("37.4056,-122.0775"),
		Org:      strPtr("AS15169 Google LLC"),
		Timezone: strPtr("America/Los_Angeles"),
	}
}

func TestStruct_Credentials(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, v.Struct(dto.Credentials{Email: strPtr("a@b.com"), Password: strPtr("secret1")}))
	})

	t.Run("missing fields", func(t *testing.T) {
		errs := v.Struct(dto.Credentials{})
		assert.ElementsMatch(t, []apperror.FieldError{
			{Field: "email", Message: "Required"},
			{Field: "password", Message: "Required"},
		}, errs)
	})

	t.Run("bad email and short password", func(t *testing.T) {
		errs := v.Struct(dto.Credentials{Email: strPtr("not-an-email"), Password: strPtr("12345")})
		assert.ElementsMatch(t, []apperror.FieldError{
			{Field: "email", Message: "Invalid email format"},
			{Field: "password", Message: "Password must be at least 6 characters"},
		}, errs)
	})

	t.Run("six character password passes", func(t *testing.T) {
		assert.Nil(t, v.Struct(dto.Credentials{Email: strPtr("a@b.com"), Password: strPtr("123456")}))
	})
}

func TestStruct_CreateHistory(t *testing.T) {
	v := New()

	t.Run("valid ipv4 and ipv6", func(t *testing.T) {
		for _, ip := range []string{"8.8.8.8", "2001:4860:4860::8888"} {
			assert.Nil(t, v.Struct(dto.CreateHistoryRequest{IPAddress: strPtr(ip), GeoData: validGeo()}), ip)
		}
	})

	t.Run("invalid ip", func(t *testing.T) {
		errs := v.Struct(dto.CreateHistoryRequest{IPAddress: strPtr("999.1.1.1"), GeoData: validGeo()})
		assert.Equal(t, []apperror.FieldError{{Field: "ip_address", Message: "Invalid IP address"}}, errs)
	})

	t.Run("missing geo data", func(t *testing.T) {
		errs := v.Struct(dto.CreateHistoryRequest{IPAddress: strPtr("8.8.8.8")})
		assert.Equal(t, []apperror.FieldError{{Field: "geo_data", Message: "Required"}}, errs)
	})

	t.Run("nested required field uses dotted path", func(t *testing.T) {
		geo := validGeo()
		geo.City = nil
		errs := v.Struct(dto.CreateHistoryRequest{IPAddress: strPtr("8.8.8.8"), GeoData: geo})
		assert.Equal(t, []apperror.FieldError{{Field: "geo_data.city", Message: "Required"}}, errs)
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		geo := validGeo()
		geo.Postal = nil
		geo.Hostname = nil
		assert.Nil(t, v.Struct(dto.CreateHistoryRequest{IPAddress: strPtr("8.8.8.8"), GeoData: geo}))
	})
}

func TestStruct_DeleteHistory(t *testing.T) {
	v := New()

	t.Run("missing ids", func(t *testing.T) {
		errs := v.Struct(dto.DeleteHistoryRequest{})
		require.Len(t, errs, 1)
		assert.Equal(t, "ids", errs[0].Field)
	})

	t.Run("empty ids", func(t *testing.T) {
		errs := v.Struct(dto.DeleteHistoryRequest{IDs: []string{}})
		assert.Equal(t, []apperror.FieldError{{Field: "ids", Message: "At least one ID is required"}}, errs)
	})

	t.Run("non uuid element", func(t *testing.T) {
		errs := v.Struct(dto.DeleteHistoryRequest{IDs: []string{
			"6f1c1d2e-3a4b-4c5d-8e9f-0a1b2c3d4e5f",
			"abc",
		}})
		assert.Equal(t, []apperror.FieldError{{Field: "ids.1", Message: "Invalid uuid"}}, errs)
	})

	t.Run("uppercase uuid accepted", func(t *testing.T) {
		assert.Nil(t, v.Struct(dto.DeleteHistoryRequest{IDs: []string{"6F1C1D2E-3A4B-4C5D-8E9F-0A1B2C3D4E5F"}}))
	})

	t.Run("braced or urn forms rejected", func(t *testing.T) {
		errs := v.Struct(dto.DeleteHistoryRequest{IDs: []string{"urn:uuid:6f1c1d2e-3a4b-4c5d-8e9f-0a1b2c3d4e5f"}})
		require.Len(t, errs, 1)
		assert.Equal(t, "ids.0", errs[0].Field)
	})
}

func TestDecode(t *testing.T) {
	t.Run("empty body decodes as empty object", func(t *testing.T) {
		var req dto.Credentials
		require.NoError(t, Decode(nil, nil, &req))
		assert.Nil(t, req.Email)
	})

	t.Run("well formed", func(t *testing.T) {
		var req dto.Credentials
		require.NoError(t, Decode(nil, []byte(`{"email":"a@b.com","password":"secret1"}`), &req))
		assert.Equal(t, "a@b.com", *req.Email)
	})

	t.Run("wrong type is a validation error", func(t *testing.T) {
		var req dto.DeleteHistoryRequest
		err := Decode(nil, []byte(`{"ids":"abc"}`), &req)
		e, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindValidation, e.Kind)
		assert.Equal(t, "Validation error", e.Message)
		assert.Equal(t, []apperror.FieldError{{Field: "ids", Message: "Expected array, received string"}}, e.Fields)
	})

	t.Run("nested wrong type", func(t *testing.T) {
		var req dto.CreateHistoryRequest
		err := Decode(nil, []byte(`{"ip_address":"8.8.8.8","geo_data":{"city":42}}`), &req)
		e, ok := apperror.As(err)
		require.True(t, ok)
		require.Len(t, e.Fields, 1)
		assert.Equal(t, "geo_data.city", e.Fields[0].Field)
		assert.Equal(t, "Expected string, received number", e.Fields[0].Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		var req dto.Credentials
		err := Decode(nil, []byte(`{"email":`), &req)
		e, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindBadRequest, e.Kind)
		assert.Equal(t, "Malformed JSON request body", e.Message)
	})
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "email", fieldPath("Credentials.email"))
	assert.Equal(t, "geo_data.city", fieldPath("CreateHistoryRequest.geo_data.city"))
	assert.Equal(t, "ids.3", fieldPath("DeleteHistoryRequest.ids[3]"))
}

func TestNew_RegistersUUIDRule(t *testing.T) {
	var v *Validator
	require.NotPanics(t, func() { v = New() })
	assert.Nil(t, v.Struct(dto.DeleteHistoryRequest{IDs: []string{"6F1C1D2E-3A4B-4C5D-8E9F-0A1B2C3D4E5F"}}))
}

func TestMerge(t *testing.T) {
	t.Run("mistyped field keeps only its type error", func(t *testing.T) {
		var req dto.Credentials
		err := Decode(nil, []byte(`{"email":5}`), &req)
		e, ok := apperror.As(err)
		require.True(t, ok)

		got := Merge(e.Fields, New().Struct(req))
		assert.Equal(t, []apperror.FieldError{
			{Field: "email", Message: "Expected string, received number"},
			{Field: "password", Message: "Required"},
		}, got)
	})

	t.Run("nested entries under a mistyped field are dropped", func(t *testing.T) {
		decoded := []apperror.FieldError{{Field: "ids", Message: "Expected string, received number"}}
		checked := []apperror.FieldError{
			{Field: "ids.0", Message: "Invalid uuid"},
			{Field: "idsx", Message: "Required"},
		}
		assert.Equal(t, []apperror.FieldError{
			{Field: "ids", Message: "Expected string, received number"},
			{Field: "idsx", Message: "Required"},
		}, Merge(decoded, checked))
	})

	t.Run("nothing decoded wrong", func(t *testing.T) {
		checked := []apperror.FieldError{{Field: "email", Message: "Required"}}
		assert.Equal(t, checked, Merge(nil, checked))
	})
}
