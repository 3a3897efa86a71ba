package repositories

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mockDriver *MockInfraDriver
	mockTx     *MockInfraTransaction
	repo       product.Repository
}

func (s *ProductRepoTestSuite) SetupTest() {
	d, tx := SetupMockDriver(s.T())
	s.mockDriver = d
	s.mockTx = tx
	s.repo = NewNeo4jProductRepo(s.mockDriver, logging.NewNopLogger())
}

func productNode(id, name, category string, price float64, features []any) neo4j.Node {
	return neo4j.Node{
		Props: map[string]any{
			"id":            id,
			"competitor_id": "comp-1",
			"name":          name,
			"description":   "a " + name,
			"category":      category,
			"price":         price,
			"currency":      "USD",
			"features":      features,
			"in_stock":      true,
		},
	}
}

func (s *ProductRepoTestSuite) TestFindByID_Found() {
	node := productNode("prod-1", "Widget Pro", "widgets", 49.99, []any{"wifi", "bluetooth"})
	res := &MockResult{Records: []*neo4j.Record{NewRecord([]string{"p"}, []any{node})}}
	s.mockTx.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(res, nil)

	p, err := s.repo.FindByID(context.Background(), "prod-1")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "prod-1", p.ID)
	assert.Equal(s.T(), "Widget Pro", p.Name)
	assert.Equal(s.T(), 49.99, p.Price)
	assert.Equal(s.T(), []string{"wifi", "bluetooth"}, p.Features)
	assert.True(s.T(), p.InStock)
}

func (s *ProductRepoTestSuite) TestFindByID_NotFound() {
	s.mockTx.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(new(MockResult), nil)

	_, err := s.repo.FindByID(context.Background(), "missing")
	assert.Error(s.T(), err)
	assert.Equal(s.T(), errors.ErrCodeProductNotFound, errors.GetCode(err))
}

func (s *ProductRepoTestSuite) TestFindByID_CorruptNode() {
	node := neo4j.Node{Props: map[string]any{"name": "nameless"}}
	res := &MockResult{Records: []*neo4j.Record{NewRecord([]string{"p"}, []any{node})}}
	s.mockTx.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(res, nil)

	_, err := s.repo.FindByID(context.Background(), "prod-1")
	assert.Error(s.T(), err)
}

func (s *ProductRepoTestSuite) TestFindByIDs_SkipsEmptyInput() {
	got, err := s.repo.FindByIDs(context.Background(), nil)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), got)
	s.mockTx.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ProductRepoTestSuite) TestFindByIDs_ReturnsAllResolved() {
	res := &MockResult{Records: []*neo4j.Record{
		NewRecord([]string{"p"}, []any{productNode("prod-1", "Widget Pro", "widgets", 49.99, nil)}),
		NewRecord([]string{"p"}, []any{productNode("prod-2", "Widget Lite", "widgets", 19.99, nil)}),
	}}
	s.mockTx.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(res, nil)

	got, err := s.repo.FindByIDs(context.Background(), []string{"prod-1", "prod-2", "prod-3"})
	assert.NoError(s.T(), err)
	assert.Len(s.T(), got, 2)
}

func (s *ProductRepoTestSuite) TestCount() {
	res := &MockResult{Records: []*neo4j.Record{NewRecord([]string{"total"}, []any{int64(42)})}}
	s.mockTx.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(res, nil)

	total, err := s.repo.Count(context.Background())
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(42), total)
}

func TestProductRepo(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}
