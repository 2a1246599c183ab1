package ast

// NodeType tags the syntax tree node variants.
type NodeType string

const (
	NodeProgram             NodeType = "Program"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeIfStatement         NodeType = "IfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeForInStatement      NodeType = "ForInStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeNumberLiteral       NodeType = "NumberLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeArrayLiteral        NodeType = "ArrayLiteral"
	NodeIdentifier          NodeType = "Identifier"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeAssignmentExpr      NodeType = "AssignmentExpression"
	NodeCallExpression      NodeType = "CallExpression"
)

// Position is the 1-based source location of a node's leading token.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Node interface {
	NodeType() NodeType
	Pos() Position
	isNode()
}

type nodeImpl struct {
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
}

func newNodeImpl(kind NodeType, pos Position) nodeImpl {
	return nodeImpl{Type: kind, Position: pos}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Pos() Position      { return n.Position }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Program is the root node: the ordered top-level statement sequence.

type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram, Position{Line: 1, Column: 1}), Body: body}
}

// Statements

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name   string          `json:"name"`
	Params []string        `json:"params"`
	Body   *BlockStatement `json:"body"`
}

func NewFunctionDeclaration(pos Position, name string, params []string, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration, pos), Name: name, Params: params, Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Test       Expression      `json:"test"`
	Consequent *BlockStatement `json:"consequent"`
	Alternate  *BlockStatement `json:"alternate,omitempty"`
}

func NewIfStatement(pos Position, test Expression, consequent, alternate *BlockStatement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement, pos), Test: test, Consequent: consequent, Alternate: alternate}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Test Expression      `json:"test"`
	Body *BlockStatement `json:"body"`
}

func NewWhileStatement(pos Position, test Expression, body *BlockStatement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement, pos), Test: test, Body: body}
}

type ForInStatement struct {
	nodeImpl
	statementMarker

	Variable string          `json:"variable"`
	Iterable Expression      `json:"iterable"`
	Body     *BlockStatement `json:"body"`
}

func NewForInStatement(pos Position, variable string, iterable Expression, body *BlockStatement) *ForInStatement {
	return &ForInStatement{nodeImpl: newNodeImpl(NodeForInStatement, pos), Variable: variable, Iterable: iterable, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(pos Position, argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement, pos), Argument: argument}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockStatement(pos Position, body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement, pos), Body: body}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(pos Position, expression Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement, pos), Expression: expression}
}

// Expressions

type NumberLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(pos Position, value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral, pos), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(pos Position, value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral, pos), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(pos Position, value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral, pos), Value: value}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(pos Position, elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral, pos), Elements: elements}
}

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(pos Position, name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier, pos), Name: name}
}

// BinaryExpression carries the canonical symbol spelling of its operator;
// word aliases are rewritten by the parser.
type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(pos Position, operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression, pos), Operator: operator, Left: left, Right: right}
}

// AssignmentExpression targets are always bare identifiers; anything else is
// rejected by the parser.
type AssignmentExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target string     `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignmentExpression(pos Position, target string, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpr, pos), Target: target, Value: value}
}

type CallExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(pos Position, callee Expression, arguments []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression, pos), Callee: callee, Arguments: arguments}
}
