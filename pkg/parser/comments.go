package parser

import "tslower/pkg/lexer"

// splitHeader separates the file header from the comments leading the first
// token. The header is the run of comments at the top of the file with no
// blank line between them, and it must be followed by a blank line.
func splitHeader(first lexer.Token) (header, rest []lexer.Comment) {
	comments := first.Comments
	n := 0
	for n < len(comments) {
		if n > 0 && comments[n].Line >= comments[n-1].EndLine+2 {
			break
		}
		n++
	}
	if n == 0 {
		return nil, comments
	}
	next := first.Line
	if n < len(comments) {
		next = comments[n].Line
	}
	if next < comments[n-1].EndLine+2 && first.Type != lexer.EOF {
		return nil, comments
	}
	return comments[:n:n], comments[n:]
}

// statementToken returns the first token of stmt, which carries its leading
// comments.
func statementToken(stmt Statement) *lexer.Token {
	switch s := stmt.(type) {
	case *LetStatement:
		return &s.Token
	case *ConstStatement:
		return &s.Token
	case *VarStatement:
		return &s.Token
	case *ReturnStatement:
		return &s.Token
	case *ExpressionStatement:
		return &s.Token
	case *BlockStatement:
		return &s.Token
	case *IfStatement:
		return &s.Token
	case *InterfaceDeclaration:
		return &s.Token
	case *TypeAliasStatement:
		return &s.Token
	case *ClassDeclaration:
		return &s.Token
	}
	return nil
}

// LeadingComments returns the comments written before stmt.
func LeadingComments(stmt Statement) []lexer.Comment {
	if tok := statementToken(stmt); tok != nil {
		return tok.Comments
	}
	return nil
}

// SetLeadingComments replaces the comments written before stmt.
func SetLeadingComments(stmt Statement, comments []lexer.Comment) {
	if tok := statementToken(stmt); tok != nil {
		tok.Comments = comments
	}
}

// SplitTrailing splits comments into the prefix that sits on the line of the
// preceding code and the rest.
func SplitTrailing(comments []lexer.Comment) (trailing, rest []lexer.Comment) {
	n := 0
	for n < len(comments) && comments[n].Trailing {
		n++
	}
	return comments[:n:n], comments[n:]
}

// OwnLine returns a copy of comments with none marked trailing, for comments
// moved away from the code they followed.
func OwnLine(comments []lexer.Comment) []lexer.Comment {
	if len(comments) == 0 {
		return nil
	}
	out := make([]lexer.Comment, len(comments))
	copy(out, comments)
	for i := range out {
		out[i].Trailing = false
	}
	return out
}
