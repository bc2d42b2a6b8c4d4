package view

type NavOption struct {
	Label string
	Path  string
	// SignOut marks the option that ends the session instead of navigating.
	SignOut bool
}

func NavOptions(signedIn bool) []NavOption {
	if signedIn {
		return []NavOption{
			{Label: "Products", Path: "/products"},
			{Label: "Your Orders", Path: "/orders"},
			{Label: "Sign Out", SignOut: true},
		}
	}
	return []NavOption{
		{Label: "Home", Path: "/"},
		{Label: "Sign Up", Path: "/sign-up"},
		{Label: "Sign In", Path: "/sign-in"},
	}
}
