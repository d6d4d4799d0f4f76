package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/testutil"
)

type PageStateServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PageStateService
}

func TestPageStateService(t *testing.T) {
	suite.Run(t, new(PageStateServiceSuite))
}

func (s *PageStateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPageStateService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *PageStateServiceSuite) TestPutAndGet() {
	ctx := s.GetContext()

	_, err := s.service.GetPageState(ctx, "enrollments", "session_1")
	s.True(ierr.IsNotFound(err))

	saved, err := s.service.PutPageState(ctx, "enrollments", "session_1", json.RawMessage(`{"tab":"billing"}`))
	s.Require().NoError(err)
	s.Equal("enrollments", saved.Page)

	got, err := s.service.GetPageState(ctx, "enrollments", "session_1")
	s.Require().NoError(err)
	s.JSONEq(`{"tab":"billing"}`, string(got.Data))

	// replacing the document drops the cached copy
	_, err = s.service.PutPageState(ctx, "enrollments", "session_1", json.RawMessage(`{"tab":"charges","page":2}`))
	s.Require().NoError(err)

	got, err = s.service.GetPageState(ctx, "enrollments", "session_1")
	s.Require().NoError(err)
	s.JSONEq(`{"tab":"charges","page":2}`, string(got.Data))

	_, err = s.service.GetPageState(ctx, "enrollments", "session_2")
	s.True(ierr.IsNotFound(err))
}

func (s *PageStateServiceSuite) TestPut_Invalid() {
	tests := []struct {
		name      string
		page      string
		sessionID string
		data      json.RawMessage
	}{
		{name: "missing page", page: "", sessionID: "s", data: json.RawMessage(`{}`)},
		{name: "missing session", page: "p", sessionID: "", data: json.RawMessage(`{}`)},
		{name: "empty body", page: "p", sessionID: "s", data: nil},
		{name: "not json", page: "p", sessionID: "s", data: json.RawMessage(`{tab:`)},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.PutPageState(s.GetContext(), tt.page, tt.sessionID, tt.data)
			s.True(ierr.IsValidation(err), "unexpected error: %v", err)
		})
	}
}
