// Package gxsi maps the in-memory document model to and from the GXSI
// formulário XML dialect. The dialect is attribute-driven: every element
// carries a gxsi:type discriminator resolved against the XML-Schema-instance
// namespace, sections nest their fields inside an elementos container, and
// referenced option sets are emitted in a top-level dominios block.
package gxsi

// Namespace is the URI bound to the gxsi prefix.
const Namespace = "http://www.w3.org/2001/XMLSchema-instance"

// Prefix is the namespace prefix used throughout the dialect.
const Prefix = "gxsi"

const (
	rootName  = "gxsi:formulario"
	xmlnsAttr = "xmlns:gxsi"
	typeAttr  = "gxsi:type"
)

// Element names.
const (
	elemElementos = "elementos"
	elemElemento  = "elemento"
	elemConteudo  = "conteudo"
	elemDominios  = "dominios"
	elemDominio   = "dominio"
	elemItens     = "itens"
	elemItem      = "item"
	elemLinha     = "linha"
	elemCelula    = "celula"
)

// Type discriminators for structural (non-field) elements.
const (
	typeSection      = "seccao"
	typeTable        = "tabela"
	typeContentValue = "valor"
	typeStaticDomain = "dominioEstatico"
	typeDomainItem   = "dominioItemValor"
)

// Attribute names.
const (
	attrNome          = "nome"
	attrVersao        = "versao"
	attrTitulo        = "titulo"
	attrDescricao     = "descricao"
	attrObrigatorio   = "obrigatorio"
	attrLargura       = "largura"
	attrAltura        = "altura"
	attrValor         = "valor"
	attrDominio       = "dominio"
	attrColunas       = "colunas"
	attrTamanhoMaximo = "tamanhoMaximo"
	attrChave         = "chave"
)
