package guard

// DefaultGenericRules is the built-in generic rule set a rule file can
// opt into with `defaults: true`. It covers the command shapes that
// cause irreversible damage regardless of which paths a user chose to
// protect. Entries are ordered most-destructive first; within the
// generic tier the first match wins.
var DefaultGenericRules = []GenericRule{
	{
		Pattern: `\brm\s+(-\S+\s+)*-\S*[rR]\S*\s+(/|~/?|\$HOME)\s*($|[;&|])`,
		Reason:  "recursive delete of root or home directory",
	},
	{
		Pattern: `\brm\s+(-\S+\s+)*-\S*[rR]\S*\s+/\*`,
		Reason:  "recursive delete of everything under root",
	},
	{
		Pattern: `\bdd\b[^|;&]*\bof=/dev/(sd|hd|nvme|vd|xvd|disk)`,
		Reason:  "raw write to a block device",
	},
	{
		Pattern: `\bmkfs(\.[a-z0-9]+)?\s`,
		Reason:  "filesystem format",
	},
	{
		Pattern: `:\s*\(\s*\)\s*\{[^}]*:\s*\|\s*:`,
		Reason:  "fork bomb",
	},
	{
		Pattern: `\b(curl|wget)\b[^|;&]*\|\s*(ba|z)?sh\b`,
		Reason:  "piping a remote script directly to a shell",
	},
	{
		Pattern: `\bchmod\s+(-\S+\s+)*(000|777)\s+/\s*($|[;&|])`,
		Reason:  "permission change on the root filesystem",
	},
	{
		Pattern: `\bsudo\b`,
		Reason:  "elevated privileges",
		Ask:     true,
	},
}
