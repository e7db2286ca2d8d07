package mocks

// MockPasswordHasher implements auth.PasswordHasher for testing
type MockPasswordHasher struct {
	// HashFn allows test cases to mock the Hash behavior
	HashFn func(password string) (string, error)

	// Default values used when HashFn isn't explicitly defined
	Hashed string
	Err    error
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.Hashed != "" || m.Err != nil {
		return m.Hashed, m.Err
	}
	return "hashed:" + password, nil
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// CompareFn allows test cases to mock the Compare behavior
	CompareFn func(hashedPassword, password string) error

	// Err is returned when CompareFn isn't explicitly defined
	Err error
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return m.Err
}
