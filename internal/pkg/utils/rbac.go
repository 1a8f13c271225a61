package utils

import (
	"net/url"
)

// PathMatch compares a request path against a policy path. A policy entry
// without a query string matches any query; one with a query string must
// match it exactly.
func PathMatch(requestPath, policyPath string) bool {
	requestURL, err := url.Parse(requestPath)
	if err != nil {
		return false
	}

	policyURL, err := url.Parse(policyPath)
	if err != nil {
		return false
	}

	if requestURL.Path != policyURL.Path {
		return false
	}

	if len(policyURL.RawQuery) == 0 {
		return true
	}

	return requestURL.RawQuery == policyURL.RawQuery
}

// PathMatchFunc adapts PathMatch for enforcer.AddFunction.
func PathMatchFunc(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return false, nil
	}
	requestPath, ok1 := args[0].(string)
	policyPath, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return false, nil
	}
	return PathMatch(requestPath, policyPath), nil
}
