package selector

// kindAliases maps ESTree-style node names onto the tree-sitter node types
// the grammars produce, so selectors written against the conventional AST
// vocabulary keep working. Unknown names pass through as literal kinds.
var kindAliases = map[string]string{
	"ArrayExpression":         "array",
	"ArrowFunctionExpression": "arrow_function",
	"AwaitExpression":         "await_expression",
	"BinaryExpression":        "binary_expression",
	"BlockStatement":          "statement_block",
	"BreakStatement":          "break_statement",
	"CallExpression":          "call_expression",
	"CatchClause":             "catch_clause",
	"ClassDeclaration":        "class_declaration",
	"ConditionalExpression":   "ternary_expression",
	"ContinueStatement":       "continue_statement",
	"DoWhileStatement":        "do_statement",
	"ExportNamedDeclaration":  "export_statement",
	"ExpressionStatement":     "expression_statement",
	"ForInStatement":          "for_in_statement",
	"ForStatement":            "for_statement",
	"FunctionDeclaration":     "function_declaration",
	"FunctionExpression":      "function_expression",
	"Identifier":              "identifier",
	"IfStatement":             "if_statement",
	"ImportDeclaration":       "import_statement",
	"JSXAttribute":            "jsx_attribute",
	"JSXElement":              "jsx_element",
	"JSXExpressionContainer":  "jsx_expression",
	"JSXSelfClosingElement":   "jsx_self_closing_element",
	"MemberExpression":        "member_expression",
	"MethodDefinition":        "method_definition",
	"NewExpression":           "new_expression",
	"NumericLiteral":          "number",
	"ObjectExpression":        "object",
	"Program":                 "program",
	"RegExpLiteral":           "regex",
	"ReturnStatement":         "return_statement",
	"SpreadElement":           "spread_element",
	"StringLiteral":           "string",
	"SwitchStatement":         "switch_statement",
	"TemplateLiteral":         "template_string",
	"ThrowStatement":          "throw_statement",
	"TryStatement":            "try_statement",
	"UnaryExpression":         "unary_expression",
	"VariableDeclaration":     "lexical_declaration",
	"VariableDeclarator":      "variable_declarator",
	"WhileStatement":          "while_statement",
	"YieldExpression":         "yield_expression",

	"TSAsExpression":         "as_expression",
	"TSEnumDeclaration":      "enum_declaration",
	"TSInterfaceDeclaration": "interface_declaration",
	"TSNonNullExpression":    "non_null_expression",
	"TSSatisfiesExpression":  "satisfies_expression",
	"TSTypeAliasDeclaration": "type_alias_declaration",
	"TSTypeAnnotation":       "type_annotation",
}

// resolveKind translates an alias into the grammar's node type.
func resolveKind(name string) string {
	if kind, ok := kindAliases[name]; ok {
		return kind
	}
	return name
}
