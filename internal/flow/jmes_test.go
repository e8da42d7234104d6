package flow

import "salesapi/internal/types"

func (s *UnitTestSuite) eval(expression string, payload any) (any, error) {
	expr, err := Compile(expression)
	s.Require().NoError(err)
	return EvalAny(expr, payload)
}

func (s *UnitTestSuite) TestEvalAny() {
	obj := map[string]any{
		"key1": "value1",
		"key2": map[string]any{
			"subkey1": "subvalue1",
			"subkey2": 42,
		},
		"key3": []any{"elem1", "elem2", "elem3"},
		"key4": nil,
	}

	v, err := s.eval("key1", obj)
	s.NoError(err)
	s.Equal("value1", v.(string))

	v, err = s.eval("key2.subkey2", obj)
	s.NoError(err)
	s.Equal(42, v.(int))

	v, err = s.eval("key3[1]", obj)
	s.NoError(err)
	s.Equal("elem2", v.(string))

	v, err = s.eval("nonexistent", obj)
	s.NoError(err)
	s.Nil(v)

	v, err = s.eval("contains(key3, 'elem2')", obj)
	s.NoError(err)
	s.Equal(true, v.(bool))

	_, err = Compile("key1[")
	s.Error(err)
}

func (s *UnitTestSuite) TestFilterProducts() {
	products := []types.Product{
		{ID: "1", Name: "Laptop", Price: 999.99},
		{ID: "2", Name: "Mouse", Price: 25},
		{ID: "3", Name: "Monitor", Price: 180},
	}

	out, err := Filter("price > `100`", products)
	s.NoError(err)
	s.Equal([]types.Product{products[0], products[2]}, out)

	out, err = Filter("starts_with(name, 'M')", products)
	s.NoError(err)
	s.Len(out, 2)

	// non-boolean results never match
	out, err = Filter("name", products)
	s.NoError(err)
	s.Empty(out)

	out, err = Filter("", products)
	s.NoError(err)
	s.Equal(products, out)

	_, err = Filter("price >", products)
	s.Error(err)
}

func (s *UnitTestSuite) TestFilterUsesWireNames() {
	sales := []types.Sale{
		{ID: "s1", ClientID: "c1", ProductID: "p1", Quantity: 1},
		{ID: "s2", ClientID: "c2", ProductID: "p1", Quantity: 4},
	}
	out, err := Filter("client_id == 'c2'", sales)
	s.NoError(err)
	s.Equal([]types.Sale{sales[1]}, out)
}
